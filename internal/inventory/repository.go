package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/supplychain-backend/internal/repo"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

const lowStockCondition = "inventory.current_stock <= products.min_stock_level"

// Repository persists inventory rows.
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

func (r *Repository) Create(ctx context.Context, row *models.Inventory) error {
	return r.DB(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *Repository) Save(ctx context.Context, row *models.Inventory) error {
	return r.DB(ctx).Omit(clause.Associations).Save(row).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Inventory](ctx, r.Base, id)
}

// FindByID loads an inventory row with its product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var row models.Inventory
	if err := r.DB(ctx).Preload("Product").First(&row, "inventory.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByProduct loads the inventory row tracking productID.
func (r *Repository) FindByProduct(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var row models.Inventory
	if err := r.DB(ctx).First(&row, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetOrCreate returns the row tracking productID, inserting an empty one when
// none exists yet.
func (r *Repository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	row, err := r.FindByProduct(ctx, productID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	row = &models.Inventory{ProductID: productID}
	if err := r.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// ProductTaken reports whether another inventory row already tracks productID.
func (r *Repository) ProductTaken(ctx context.Context, productID, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB(ctx).Model(&models.Inventory{}).Where("product_id = ?", productID)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns inventory rows ordered by product name.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Inventory, error) {
	return r.list(ctx, false, page)
}

// LowStock returns rows whose current stock is at or below the product minimum.
func (r *Repository) LowStock(ctx context.Context, page pagination.Params) ([]models.Inventory, error) {
	return r.list(ctx, true, page)
}

func (r *Repository) list(ctx context.Context, lowStock bool, page pagination.Params) ([]models.Inventory, error) {
	q := r.DB(ctx).
		Select("inventory.*").
		Preload("Product").
		Joins("JOIN products ON products.id = inventory.product_id")
	if lowStock {
		q = q.Where(lowStockCondition)
	}
	var rows []models.Inventory
	err := q.Scopes(repo.Paged(page)).
		Order("products.name ASC").
		Order("inventory.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of inventory rows, optionally only low-stock ones.
func (r *Repository) Count(ctx context.Context, lowStock bool) (int64, error) {
	q := r.DB(ctx).Model(&models.Inventory{})
	if lowStock {
		q = q.Joins("JOIN products ON products.id = inventory.product_id").Where(lowStockCondition)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
