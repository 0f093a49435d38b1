package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/internal/repo"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Repository persists product categories.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.DB(ctx).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.DB(ctx).Save(category).Error
}

// Delete removes the category; its products cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Category](ctx, r.Base, id)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Exists reports whether a category with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Category, error) {
	var rows []models.Category
	if err := r.DB(ctx).Scopes(repo.Paged(page)).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
