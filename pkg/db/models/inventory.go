package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory tracks stock levels for a single product.
type Inventory struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Product        *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CurrentStock   int       `gorm:"column:current_stock;not null;default:0;check:current_stock >= 0"`
	ReservedStock  int       `gorm:"column:reserved_stock;not null;default:0;check:reserved_stock >= 0"`
	AvailableStock int       `gorm:"column:available_stock;not null;default:0"`
	LastUpdated    time.Time `gorm:"column:last_updated;autoUpdateTime"`
}

// TableName keeps the singular table name.
func (Inventory) TableName() string {
	return "inventory"
}

// BeforeCreate assigns the primary key.
func (i *Inventory) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// BeforeSave recomputes the available stock on every write.
func (i *Inventory) BeforeSave(*gorm.DB) error {
	i.AvailableStock = AvailableStock(i.CurrentStock, i.ReservedStock)
	return nil
}

// AvailableStock is current minus reserved. The result is not clamped.
func AvailableStock(current, reserved int) int {
	return current - reserved
}
