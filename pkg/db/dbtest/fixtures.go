package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
)

// SeedUser inserts an active user.
func SeedUser(t testing.TB, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "unused",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

// SeedSupplier inserts a supplier with the given name.
func SeedSupplier(t testing.TB, conn *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		Name:          name,
		ContactPerson: "Contact " + name,
		Phone:         "555-0100",
		Email:         "orders@example.com",
		Address:       "1 Dock Street",
	}
	require.NoError(t, conn.Create(supplier).Error)
	return supplier
}

// SeedCategory inserts a category with the given name.
func SeedCategory(t testing.TB, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, conn.Create(category).Error)
	return category
}

// ProductSeed overrides product defaults.
type ProductSeed struct {
	Name          string
	SKU           string
	Description   string
	UnitPrice     string
	StockQuantity int
	MinStockLevel int
}

// SeedProduct inserts a product owned by the given supplier and category.
func SeedProduct(t testing.TB, conn *gorm.DB, supplierID, categoryID uuid.UUID, seed ProductSeed) *models.Product {
	t.Helper()
	if seed.SKU == "" {
		seed.SKU = "SKU-" + uuid.NewString()[:8]
	}
	if seed.Name == "" {
		seed.Name = "Product " + seed.SKU
	}
	if seed.UnitPrice == "" {
		seed.UnitPrice = "1.00"
	}
	product := &models.Product{
		Name:          seed.Name,
		SKU:           seed.SKU,
		Description:   seed.Description,
		SupplierID:    supplierID,
		CategoryID:    categoryID,
		UnitPrice:     decimal.RequireFromString(seed.UnitPrice),
		StockQuantity: seed.StockQuantity,
		MinStockLevel: seed.MinStockLevel,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

// SeedOrder inserts a purchase order with the given status and amount.
func SeedOrder(t testing.TB, conn *gorm.DB, supplierID, userID uuid.UUID, number string, status enums.PurchaseOrderStatus, amount string, orderDate time.Time) *models.PurchaseOrder {
	t.Helper()
	order := &models.PurchaseOrder{
		OrderNumber:          number,
		SupplierID:           supplierID,
		CreatedByID:          userID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: orderDate.AddDate(0, 0, 7),
		Status:               status,
		TotalAmount:          decimal.RequireFromString(amount),
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

// SeedItem inserts a line item on the order.
func SeedItem(t testing.TB, conn *gorm.DB, orderID, productID uuid.UUID, quantity int, unitPrice string) *models.PurchaseOrderItem {
	t.Helper()
	item := &models.PurchaseOrderItem{
		PurchaseOrderID: orderID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       decimal.RequireFromString(unitPrice),
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}
