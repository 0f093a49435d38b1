package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
)

const supplierBody = `{"name":"Acme","contact_person":"Jane","phone":"555-0100","email":"jane@acme.test","address":"1 Main St"}`

func TestSupplierCreate(t *testing.T) {
	svc := &stubSupplierService{}

	rec := httptest.NewRecorder()
	SupplierCreate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/suppliers", supplierBody, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Acme", svc.created.Name)
	assert.Equal(t, "jane@acme.test", svc.created.Email)
}

func TestSupplierCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad email", `{"name":"Acme","contact_person":"Jane","phone":"555","email":"nope","address":"x"}`, "email"},
		{"missing name", `{"contact_person":"Jane","phone":"555","email":"a@b.test","address":"x"}`, "name"},
		{"phone too long", `{"name":"Acme","contact_person":"Jane","phone":"123456789012345678901","email":"a@b.test","address":"x"}`, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubSupplierService{}
			rec := httptest.NewRecorder()
			SupplierCreate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/suppliers", tt.body, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
			assert.Contains(t, env.Error.Details, tt.field)
			assert.Nil(t, svc.created)
		})
	}
}

func TestSupplierCreateRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	SupplierCreate(&stubSupplierService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/suppliers", `{"name":"Acme","rating":5}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierDetailMalformedIDIsNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	SupplierDetail(&stubSupplierService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/suppliers/abc", "", map[string]string{supplierIDParam: "abc"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), decodeEnvelope(t, rec).Error.Code)
}

func TestSupplierDetailPropagatesNotFound(t *testing.T) {
	svc := &stubSupplierService{getErr: pkgerrors.NotFound("supplier")}
	id := uuid.NewString()

	rec := httptest.NewRecorder()
	SupplierDetail(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/suppliers/"+id, "", map[string]string{supplierIDParam: id}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierUpdatePutAndPatch(t *testing.T) {
	id := uuid.NewString()
	params := map[string]string{supplierIDParam: id}

	t.Run("put replaces every field", func(t *testing.T) {
		svc := &stubSupplierService{}
		rec := httptest.NewRecorder()
		SupplierUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPut, "/api/v1/suppliers/"+id, supplierBody, params))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.updated.Address)
		assert.Equal(t, "1 Main St", *svc.updated.Address)
	})

	t.Run("put requires every field", func(t *testing.T) {
		svc := &stubSupplierService{}
		rec := httptest.NewRecorder()
		SupplierUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPut, "/api/v1/suppliers/"+id, `{"phone":"555"}`, params))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.updated)
	})

	t.Run("patch touches only sent fields", func(t *testing.T) {
		svc := &stubSupplierService{}
		rec := httptest.NewRecorder()
		SupplierUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPatch, "/api/v1/suppliers/"+id, `{"phone":"555"}`, params))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.updated.Phone)
		assert.Equal(t, "555", *svc.updated.Phone)
		assert.Nil(t, svc.updated.Name)
		assert.Nil(t, svc.updated.Email)
	})
}

func TestSupplierListAndSearch(t *testing.T) {
	svc := &stubSupplierService{}

	rec := httptest.NewRecorder()
	SupplierSearch(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/suppliers/search?q=acme&limit=5", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", svc.listed.Query)
	assert.Equal(t, 5, svc.listed.Page.Limit)

	rec = httptest.NewRecorder()
	SupplierList(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/suppliers?q=ignored", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.listed.Query)
	assert.JSONEq(t, `[{"id":"00000000-0000-0000-0000-000000000000","name":"Acme","contact_person":"","phone":"","email":"","address":"","created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}]`, string(decodeEnvelope(t, rec).Data))

	rec = httptest.NewRecorder()
	SupplierList(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/suppliers?limit=-1", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierDelete(t *testing.T) {
	svc := &stubSupplierService{}
	id := uuid.New()

	rec := httptest.NewRecorder()
	SupplierDelete(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodDelete, "/api/v1/suppliers/"+id.String(), "", map[string]string{supplierIDParam: id.String()}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, svc.deleteID)
}

func TestCategoryUpdateKeepsOmittedDescriptionOnPatch(t *testing.T) {
	svc := &stubCategoryService{}
	id := uuid.NewString()

	rec := httptest.NewRecorder()
	CategoryUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPatch, "/api/v1/categories/"+id, `{"name":"Tools"}`, map[string]string{categoryIDParam: id}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tools", *svc.updated.Name)
	assert.Nil(t, svc.updated.Description)

	rec = httptest.NewRecorder()
	CategoryUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPut, "/api/v1/categories/"+id, `{"name":"Tools"}`, map[string]string{categoryIDParam: id}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.Description)
	assert.Empty(t, *svc.updated.Description)
}

func TestCategoryCreateRequiresName(t *testing.T) {
	rec := httptest.NewRecorder()
	CategoryCreate(&stubCategoryService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/categories", `{"description":"x"}`, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is required", decodeEnvelope(t, rec).Error.Details["name"])
}

func TestProductCreate(t *testing.T) {
	svc := &stubProductService{}
	categoryID, supplierID := uuid.New(), uuid.New()
	body := `{"name":"Widget","category":"` + categoryID.String() + `","supplier":"` + supplierID.String() + `","sku":"W-1","unit_price":"12.50","min_stock_level":3}`

	rec := httptest.NewRecorder()
	ProductCreate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/products", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, categoryID, svc.created.CategoryID)
	assert.Equal(t, supplierID, svc.created.SupplierID)
	assert.True(t, decimal.RequireFromString("12.50").Equal(svc.created.UnitPrice))
	assert.Equal(t, 0, svc.created.StockQuantity)
	assert.Equal(t, 3, svc.created.MinStockLevel)
}

func TestProductCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad category", `{"name":"W","category":"nope","supplier":"` + uuid.NewString() + `","sku":"S","unit_price":1}`, "category"},
		{"missing price", `{"name":"W","category":"` + uuid.NewString() + `","supplier":"` + uuid.NewString() + `","sku":"S"}`, "unit_price"},
		{"negative stock", `{"name":"W","category":"` + uuid.NewString() + `","supplier":"` + uuid.NewString() + `","sku":"S","unit_price":1,"stock_quantity":-1}`, "stock_quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProductService{}
			rec := httptest.NewRecorder()
			ProductCreate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/products", tt.body, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeEnvelope(t, rec).Error.Details, tt.field)
			assert.Nil(t, svc.created)
		})
	}
}

func TestProductListFilters(t *testing.T) {
	svc := &stubProductService{}
	categoryID := uuid.New()

	rec := httptest.NewRecorder()
	ProductList(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products?category="+categoryID.String()+"&offset=10", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.CategoryID)
	assert.Equal(t, categoryID, *svc.filter.CategoryID)
	assert.Nil(t, svc.filter.SupplierID)
	assert.Equal(t, 10, svc.page.Offset)

	rec = httptest.NewRecorder()
	ProductList(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products?supplier=bad", "", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be a valid UUID", decodeEnvelope(t, rec).Error.Details["supplier"])
}

func TestProductSearchAndLowStock(t *testing.T) {
	svc := &stubProductService{}

	rec := httptest.NewRecorder()
	ProductSearch(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products/search?q=%20Bolt%20", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, " Bolt ", svc.filter.Query, "search terms are passed through untrimmed")

	rec = httptest.NewRecorder()
	ProductLowStock(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products/low_stock", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.low)
	assert.Equal(t, "[]", string(decodeEnvelope(t, rec).Data))
}

func TestProductPatchOnlyPrice(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.NewString()

	rec := httptest.NewRecorder()
	ProductUpdate(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPatch, "/api/v1/products/"+id, `{"unit_price":"9.99"}`, map[string]string{productIDParam: id}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.UnitPrice)
	assert.Equal(t, "9.99", svc.updated.UnitPrice.StringFixed(2))
	assert.Nil(t, svc.updated.SKU)
	assert.Nil(t, svc.updated.CategoryID)
}
