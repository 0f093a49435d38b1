package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
)

// InventoryDTO is the inventory payload returned to clients.
type InventoryDTO struct {
	ID             uuid.UUID `json:"id"`
	Product        uuid.UUID `json:"product"`
	ProductName    string    `json:"product_name"`
	ProductSKU     string    `json:"product_sku"`
	CurrentStock   int       `json:"current_stock"`
	ReservedStock  int       `json:"reserved_stock"`
	AvailableStock int       `json:"available_stock"`
	LastUpdated    time.Time `json:"last_updated"`
}

// DashboardDTO summarizes stock across all inventory rows.
type DashboardDTO struct {
	TotalProducts    int64  `json:"total_products"`
	LowStockProducts int64  `json:"low_stock_products"`
	TotalStockValue  string `json:"total_stock_value"`
}

func FromModel(row *models.Inventory) InventoryDTO {
	dto := InventoryDTO{
		ID:             row.ID,
		Product:        row.ProductID,
		CurrentStock:   row.CurrentStock,
		ReservedStock:  row.ReservedStock,
		AvailableStock: row.AvailableStock,
		LastUpdated:    row.LastUpdated,
	}
	if row.Product != nil {
		dto.ProductName = row.Product.Name
		dto.ProductSKU = row.Product.SKU
	}
	return dto
}

func dashboardFrom(total, low int64, value decimal.Decimal) DashboardDTO {
	return DashboardDTO{
		TotalProducts:    total,
		LowStockProducts: low,
		TotalStockValue:  money.Format(value),
	}
}
