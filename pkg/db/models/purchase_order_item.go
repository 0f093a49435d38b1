package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderItem is a single product line on a purchase order.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Product         *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity        int             `gorm:"column:quantity;not null;check:quantity >= 1"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
}

// BeforeCreate assigns the primary key.
func (i *PurchaseOrderItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// BeforeSave keeps the denormalized line total in sync on every write.
func (i *PurchaseOrderItem) BeforeSave(*gorm.DB) error {
	i.TotalPrice = LineTotal(i.Quantity, i.UnitPrice)
	return nil
}

// LineTotal returns quantity × unit price using exact decimal arithmetic.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
