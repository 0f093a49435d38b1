package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry sourced from a single supplier.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;size:200;not null"`
	CategoryID    uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index"`
	Category      *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	SupplierID    uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null;index"`
	Supplier      *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	SKU           string          `gorm:"column:sku;size:50;not null;uniqueIndex"`
	Description   string          `gorm:"column:description;not null;default:''"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0;check:stock_quantity >= 0"`
	MinStockLevel int             `gorm:"column:min_stock_level;not null;default:0;check:min_stock_level >= 0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key.
func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}
