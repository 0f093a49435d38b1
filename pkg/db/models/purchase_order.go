package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/enums"
)

// PurchaseOrder is a request to a supplier for goods.
type PurchaseOrder struct {
	ID                   uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber          string                    `gorm:"column:order_number;size:50;not null;uniqueIndex"`
	SupplierID           uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null;index"`
	Supplier             *Supplier                 `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	OrderDate            time.Time                 `gorm:"column:order_date;type:date;not null"`
	ExpectedDeliveryDate time.Time                 `gorm:"column:expected_delivery_date;type:date;not null"`
	Status               enums.PurchaseOrderStatus `gorm:"column:status;size:20;not null;default:'pending';index"`
	TotalAmount          decimal.Decimal           `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Notes                string                    `gorm:"column:notes;not null;default:''"`
	CreatedByID          uuid.UUID                 `gorm:"column:created_by_id;type:uuid;not null;index"`
	CreatedBy            *User                     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Items                []PurchaseOrderItem       `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key and the initial status.
func (o *PurchaseOrder) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	if o.Status == "" {
		o.Status = enums.PurchaseOrderStatusPending
	}
	return nil
}
