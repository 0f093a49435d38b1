package purchaseorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
)

// DateLayout is the wire format of order and delivery dates.
const DateLayout = "2006-01-02"

// ItemDTO is the line item payload returned to clients.
type ItemDTO struct {
	ID            uuid.UUID `json:"id"`
	PurchaseOrder uuid.UUID `json:"purchase_order"`
	Product       uuid.UUID `json:"product"`
	ProductName   string    `json:"product_name"`
	ProductSKU    string    `json:"product_sku"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	TotalPrice    string    `json:"total_price"`
}

// OrderDTO is the purchase order payload returned to clients.
type OrderDTO struct {
	ID                   uuid.UUID                 `json:"id"`
	OrderNumber          string                    `json:"order_number"`
	Supplier             uuid.UUID                 `json:"supplier"`
	SupplierName         string                    `json:"supplier_name"`
	OrderDate            string                    `json:"order_date"`
	ExpectedDeliveryDate string                    `json:"expected_delivery_date"`
	Status               enums.PurchaseOrderStatus `json:"status"`
	StatusDisplay        string                    `json:"status_display"`
	TotalAmount          string                    `json:"total_amount"`
	Notes                string                    `json:"notes"`
	CreatedBy            uuid.UUID                 `json:"created_by"`
	CreatedByName        string                    `json:"created_by_name"`
	Items                []ItemDTO                 `json:"items"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

// DashboardDTO summarizes purchase order activity.
type DashboardDTO struct {
	TotalOrders    int64  `json:"total_orders"`
	PendingOrders  int64  `json:"pending_orders"`
	ApprovedOrders int64  `json:"approved_orders"`
	ShippedOrders  int64  `json:"shipped_orders"`
	MonthlyOrders  int64  `json:"monthly_orders"`
	TotalAmount    string `json:"total_amount"`
}

// ItemFromModel maps a line item (with preloaded product) to its DTO.
func ItemFromModel(item *models.PurchaseOrderItem) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		PurchaseOrder: item.PurchaseOrderID,
		Product:       item.ProductID,
		Quantity:      item.Quantity,
		UnitPrice:     money.Format(item.UnitPrice),
		TotalPrice:    money.Format(item.TotalPrice),
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
		dto.ProductSKU = item.Product.SKU
	}
	return dto
}

// FromModel maps an order with its preloaded relations to its DTO.
func FromModel(order *models.PurchaseOrder) OrderDTO {
	dto := OrderDTO{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		Supplier:             order.SupplierID,
		OrderDate:            order.OrderDate.Format(DateLayout),
		ExpectedDeliveryDate: order.ExpectedDeliveryDate.Format(DateLayout),
		Status:               order.Status,
		StatusDisplay:        order.Status.Display(),
		TotalAmount:          money.Format(order.TotalAmount),
		Notes:                order.Notes,
		CreatedBy:            order.CreatedByID,
		Items:                make([]ItemDTO, len(order.Items)),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
	if order.Supplier != nil {
		dto.SupplierName = order.Supplier.Name
	}
	if order.CreatedBy != nil {
		dto.CreatedByName = order.CreatedBy.Username
	}
	for i := range order.Items {
		dto.Items[i] = ItemFromModel(&order.Items[i])
	}
	return dto
}
