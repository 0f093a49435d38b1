package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      uuid.UUID `json:"category"`
	CategoryName  string    `json:"category_name"`
	Supplier      uuid.UUID `json:"supplier"`
	SupplierName  string    `json:"supplier_name"`
	SKU           string    `json:"sku"`
	Description   string    `json:"description"`
	UnitPrice     string    `json:"unit_price"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps a product (with preloaded supplier and category) to its DTO.
func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.CategoryID,
		Supplier:      p.SupplierID,
		SKU:           p.SKU,
		Description:   p.Description,
		UnitPrice:     money.Format(p.UnitPrice),
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		dto.SupplierName = p.Supplier.Name
	}
	return dto
}
