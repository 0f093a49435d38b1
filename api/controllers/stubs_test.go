package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplychain-backend/internal/categories"
	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rc := chi.NewRouteContext()
	for key, value := range params {
		rc.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type stubSupplierService struct {
	created  *suppliers.Input
	updated  *suppliers.UpdateInput
	listed   *suppliers.ListInput
	getErr   error
	deleteID uuid.UUID
}

func (s *stubSupplierService) Create(_ context.Context, input suppliers.Input) (*suppliers.SupplierDTO, error) {
	s.created = &input
	return &suppliers.SupplierDTO{ID: uuid.New(), Name: input.Name, Email: input.Email}, nil
}

func (s *stubSupplierService) Get(_ context.Context, id uuid.UUID) (*suppliers.SupplierDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &suppliers.SupplierDTO{ID: id}, nil
}

func (s *stubSupplierService) Update(_ context.Context, id uuid.UUID, input suppliers.UpdateInput) (*suppliers.SupplierDTO, error) {
	s.updated = &input
	return &suppliers.SupplierDTO{ID: id}, nil
}

func (s *stubSupplierService) Delete(_ context.Context, id uuid.UUID) error {
	s.deleteID = id
	return nil
}

func (s *stubSupplierService) List(_ context.Context, input suppliers.ListInput) ([]suppliers.SupplierDTO, error) {
	s.listed = &input
	return []suppliers.SupplierDTO{{Name: "Acme"}}, nil
}

type stubCategoryService struct {
	updated *categories.UpdateInput
}

func (s *stubCategoryService) Create(_ context.Context, input categories.Input) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCategoryService) Get(_ context.Context, id uuid.UUID) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: id}, nil
}

func (s *stubCategoryService) Update(_ context.Context, id uuid.UUID, input categories.UpdateInput) (*categories.CategoryDTO, error) {
	s.updated = &input
	return &categories.CategoryDTO{ID: id}, nil
}

func (s *stubCategoryService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubCategoryService) List(context.Context, pagination.Params) ([]categories.CategoryDTO, error) {
	return []categories.CategoryDTO{}, nil
}

type stubProductService struct {
	created *products.Input
	updated *products.UpdateInput
	filter  *products.Filter
	page    pagination.Params
	low     bool
}

func (s *stubProductService) Create(_ context.Context, input products.Input) (*products.ProductDTO, error) {
	s.created = &input
	return &products.ProductDTO{ID: uuid.New(), SKU: input.SKU, UnitPrice: input.UnitPrice.StringFixed(2)}, nil
}

func (s *stubProductService) Get(_ context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (s *stubProductService) Update(_ context.Context, id uuid.UUID, input products.UpdateInput) (*products.ProductDTO, error) {
	s.updated = &input
	return &products.ProductDTO{ID: id}, nil
}

func (s *stubProductService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubProductService) List(_ context.Context, filter products.Filter, page pagination.Params) ([]products.ProductDTO, error) {
	s.filter = &filter
	s.page = page
	return []products.ProductDTO{}, nil
}

func (s *stubProductService) LowStock(_ context.Context, page pagination.Params) ([]products.ProductDTO, error) {
	s.low = true
	s.page = page
	return []products.ProductDTO{}, nil
}

type stubOrderService struct {
	created   *purchaseorders.Input
	updated   *purchaseorders.UpdateInput
	filter    *purchaseorders.Filter
	called    string
	actionErr error
}

func (s *stubOrderService) Create(_ context.Context, input purchaseorders.Input) (*purchaseorders.OrderDTO, error) {
	s.created = &input
	return &purchaseorders.OrderDTO{ID: uuid.New(), OrderNumber: input.OrderNumber}, nil
}

func (s *stubOrderService) Get(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	return &purchaseorders.OrderDTO{ID: id}, nil
}

func (s *stubOrderService) Update(_ context.Context, id uuid.UUID, input purchaseorders.UpdateInput) (*purchaseorders.OrderDTO, error) {
	s.updated = &input
	return &purchaseorders.OrderDTO{ID: id}, nil
}

func (s *stubOrderService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubOrderService) List(_ context.Context, filter purchaseorders.Filter, _ pagination.Params) ([]purchaseorders.OrderDTO, error) {
	s.filter = &filter
	return []purchaseorders.OrderDTO{}, nil
}

func (s *stubOrderService) action(status enums.PurchaseOrderStatus, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	s.called = status.String()
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	return &purchaseorders.OrderDTO{ID: id, Status: status}, nil
}

func (s *stubOrderService) Approve(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	return s.action(enums.PurchaseOrderStatusApproved, id)
}

func (s *stubOrderService) Ship(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	return s.action(enums.PurchaseOrderStatusShipped, id)
}

func (s *stubOrderService) Receive(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	return s.action(enums.PurchaseOrderStatusReceived, id)
}

func (s *stubOrderService) Cancel(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	return s.action(enums.PurchaseOrderStatusCancelled, id)
}

func (s *stubOrderService) Dashboard(context.Context) (*purchaseorders.DashboardDTO, error) {
	return &purchaseorders.DashboardDTO{TotalAmount: "0.00"}, nil
}

type stubItemService struct {
	created *purchaseorders.ItemInput
	updated *purchaseorders.ItemUpdateInput
	filter  *purchaseorders.ItemFilter
}

func (s *stubItemService) Create(_ context.Context, input purchaseorders.ItemInput) (*purchaseorders.ItemDTO, error) {
	s.created = &input
	return &purchaseorders.ItemDTO{ID: uuid.New(), Quantity: input.Quantity}, nil
}

func (s *stubItemService) Get(_ context.Context, id uuid.UUID) (*purchaseorders.ItemDTO, error) {
	return &purchaseorders.ItemDTO{ID: id}, nil
}

func (s *stubItemService) Update(_ context.Context, id uuid.UUID, input purchaseorders.ItemUpdateInput) (*purchaseorders.ItemDTO, error) {
	s.updated = &input
	return &purchaseorders.ItemDTO{ID: id}, nil
}

func (s *stubItemService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubItemService) List(_ context.Context, filter purchaseorders.ItemFilter, _ pagination.Params) ([]purchaseorders.ItemDTO, error) {
	s.filter = &filter
	return []purchaseorders.ItemDTO{}, nil
}

type stubInventoryService struct {
	created *inventory.Input
	updated *inventory.UpdateInput
	low     bool
}

func (s *stubInventoryService) Create(_ context.Context, input inventory.Input) (*inventory.InventoryDTO, error) {
	s.created = &input
	return &inventory.InventoryDTO{ID: uuid.New(), CurrentStock: input.CurrentStock}, nil
}

func (s *stubInventoryService) Get(_ context.Context, id uuid.UUID) (*inventory.InventoryDTO, error) {
	return &inventory.InventoryDTO{ID: id}, nil
}

func (s *stubInventoryService) Update(_ context.Context, id uuid.UUID, input inventory.UpdateInput) (*inventory.InventoryDTO, error) {
	s.updated = &input
	return &inventory.InventoryDTO{ID: id}, nil
}

func (s *stubInventoryService) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubInventoryService) List(context.Context, pagination.Params) ([]inventory.InventoryDTO, error) {
	return []inventory.InventoryDTO{}, nil
}

func (s *stubInventoryService) LowStock(context.Context, pagination.Params) ([]inventory.InventoryDTO, error) {
	s.low = true
	return []inventory.InventoryDTO{}, nil
}

func (s *stubInventoryService) Dashboard(context.Context) (*inventory.DashboardDTO, error) {
	return &inventory.DashboardDTO{TotalProducts: 2, LowStockProducts: 1, TotalStockValue: "40.00"}, nil
}
