package purchaseorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/supplychain-backend/internal/repo"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Filter narrows purchase order listings.
type Filter struct {
	Status     *enums.PurchaseOrderStatus
	SupplierID *uuid.UUID
}

// Repository persists purchase orders.
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

func (r *Repository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	return r.DB(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *Repository) Save(ctx context.Context, order *models.PurchaseOrder) error {
	return r.DB(ctx).Omit(clause.Associations).Save(order).Error
}

// Delete removes the order; its items cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.PurchaseOrder](ctx, r.Base, id)
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Supplier").
		Preload("CreatedBy").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("purchase_order_items.id ASC") }).
		Preload("Items.Product")
}

// FindByID loads an order with its supplier, creator and items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.DB(ctx).Scopes(withDetails).First(&order, "purchase_orders.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUpdate loads the bare order row with its items, locking the row on
// databases that support it.
func (r *Repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	q := r.DB(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
	}
	var order models.PurchaseOrder
	if err := q.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus overwrites the order status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PurchaseOrderStatus) error {
	res := r.DB(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether an order with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.PurchaseOrder{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// OrderNumberTaken reports whether another order already uses number.
func (r *Repository) OrderNumberTaken(ctx context.Context, number string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB(ctx).Model(&models.PurchaseOrder{}).Where("order_number = ?", number)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter, page pagination.Params) ([]models.PurchaseOrder, error) {
	q := r.DB(ctx).Scopes(withDetails)
	if filter.Status != nil {
		q = q.Where("purchase_orders.status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		q = q.Where("purchase_orders.supplier_id = ?", *filter.SupplierID)
	}
	var rows []models.PurchaseOrder
	err := q.Scopes(repo.Paged(page)).
		Order("purchase_orders.created_at DESC").
		Order("purchase_orders.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus returns the number of orders per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.PurchaseOrderStatus]int64, error) {
	var rows []struct {
		Status enums.PurchaseOrderStatus
		Total  int64
	}
	err := r.DB(ctx).
		Model(&models.PurchaseOrder{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.PurchaseOrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// CountOrderedBetween counts orders whose order date falls in [from, to).
func (r *Repository) CountOrderedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.PurchaseOrder{}).
		Where("order_date >= ? AND order_date < ?", from, to).
		Count(&count).Error
	return count, err
}

// SumTotalAmount adds up total_amount across all orders.
func (r *Repository) SumTotalAmount(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	err := r.DB(ctx).
		Model(&models.PurchaseOrder{}).
		Select("SUM(total_amount) AS total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}

// ItemFilter narrows line item listings.
type ItemFilter struct {
	PurchaseOrderID *uuid.UUID
}

// ItemRepository persists purchase order line items.
type ItemRepository struct {
	repo.Base
}

// NewItemRepository builds an item repository tied to the provided GORM DB.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{Base: repo.NewBase(db)}
}

func (r *ItemRepository) Create(ctx context.Context, item *models.PurchaseOrderItem) error {
	return r.DB(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *ItemRepository) Save(ctx context.Context, item *models.PurchaseOrderItem) error {
	return r.DB(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.PurchaseOrderItem](ctx, r.Base, id)
}

// FindByID loads an item with its product.
func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrderItem, error) {
	var item models.PurchaseOrderItem
	if err := r.DB(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns items, optionally restricted to one order.
func (r *ItemRepository) List(ctx context.Context, filter ItemFilter, page pagination.Params) ([]models.PurchaseOrderItem, error) {
	q := r.DB(ctx).Preload("Product")
	if filter.PurchaseOrderID != nil {
		q = q.Where("purchase_order_id = ?", *filter.PurchaseOrderID)
	}
	var rows []models.PurchaseOrderItem
	err := q.Scopes(repo.Paged(page)).
		Order("purchase_order_id ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
