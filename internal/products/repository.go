package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/supplychain-backend/internal/repo"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

var searchColumns = []string{"products.name", "products.sku", "products.description"}

// Filter narrows product listings.
type Filter struct {
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	LowStock   bool
}

// Repository persists products.
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

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit(clause.Associations).Save(product).Error
}

// Delete removes the product; order items and inventory cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Product](ctx, r.Base, id)
}

// FindByID loads a product with its supplier and category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Supplier").
		Preload("Category").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a product with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SKUTaken reports whether another product already uses sku.
func (r *Repository) SKUTaken(ctx context.Context, sku string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB(ctx).Model(&models.Product{}).Where("sku = ?", sku)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products matching the filter ordered by name.
func (r *Repository) List(ctx context.Context, filter Filter, page pagination.Params) ([]models.Product, error) {
	q := r.DB(ctx).
		Preload("Supplier").
		Preload("Category").
		Scopes(repo.ContainsAny(filter.Query, searchColumns...))
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		q = q.Where("products.supplier_id = ?", *filter.SupplierID)
	}
	if filter.LowStock {
		q = q.Where("products.stock_quantity <= products.min_stock_level")
	}

	var rows []models.Product
	if err := q.Scopes(repo.Paged(page)).Order("products.name ASC").Order("products.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementStock atomically adds delta to the product's stock quantity. The
// UPDATE holds the row lock until the surrounding transaction commits.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StockQuantity reads the current stock quantity of a product.
func (r *Repository) StockQuantity(ctx context.Context, id uuid.UUID) (int, error) {
	var product models.Product
	if err := r.DB(ctx).Select("id", "stock_quantity").First(&product, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return product.StockQuantity, nil
}
