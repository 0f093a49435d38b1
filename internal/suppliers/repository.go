package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/internal/repo"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// searchColumns are matched by the free-text supplier search.
var searchColumns = []string{"name", "contact_person", "phone"}

// Repository persists suppliers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts the supplier.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.DB(ctx).Create(supplier).Error
}

// Save writes every column of the supplier.
func (r *Repository) Save(ctx context.Context, supplier *models.Supplier) error {
	return r.DB(ctx).Save(supplier).Error
}

// Delete removes the supplier; products and orders cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Supplier](ctx, r.Base, id)
}

// FindByID loads a supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.DB(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Exists reports whether a supplier with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns suppliers matching query (all when empty) ordered by name.
func (r *Repository) List(ctx context.Context, query string, page pagination.Params) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.DB(ctx).
		Scopes(repo.ContainsAny(query, searchColumns...), repo.Paged(page)).
		Order("name ASC").
		Order("id ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
