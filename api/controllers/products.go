package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/supplychain-backend/api/responses"
	"github.com/angelmondragon/supplychain-backend/api/validators"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
)

const productIDParam = "productId"

type productRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Category      string           `json:"category" validate:"required,uuid"`
	Supplier      string           `json:"supplier" validate:"required,uuid"`
	SKU           string           `json:"sku" validate:"required,max=50"`
	Description   string           `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price" validate:"required"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitnil,min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitnil,min=0"`
}

func (r productRequest) toInput() (products.Input, error) {
	categoryID, err := validators.ParseUUIDField("category", r.Category)
	if err != nil {
		return products.Input{}, err
	}
	supplierID, err := validators.ParseUUIDField("supplier", r.Supplier)
	if err != nil {
		return products.Input{}, err
	}
	input := products.Input{
		Name:        r.Name,
		CategoryID:  categoryID,
		SupplierID:  supplierID,
		SKU:         r.SKU,
		Description: r.Description,
		UnitPrice:   *r.UnitPrice,
	}
	if r.StockQuantity != nil {
		input.StockQuantity = *r.StockQuantity
	}
	if r.MinStockLevel != nil {
		input.MinStockLevel = *r.MinStockLevel
	}
	return input, nil
}

// toUpdateInput converts a full PUT body; omitted counters reset to zero.
func (r productRequest) toUpdateInput() (products.UpdateInput, error) {
	input, err := r.toInput()
	if err != nil {
		return products.UpdateInput{}, err
	}
	return products.UpdateInput{
		Name:          &input.Name,
		CategoryID:    &input.CategoryID,
		SupplierID:    &input.SupplierID,
		SKU:           &input.SKU,
		Description:   &input.Description,
		UnitPrice:     &input.UnitPrice,
		StockQuantity: &input.StockQuantity,
		MinStockLevel: &input.MinStockLevel,
	}, nil
}

type productPatchRequest struct {
	Name          *string          `json:"name" validate:"omitnil,min=1,max=200"`
	Category      *string          `json:"category" validate:"omitnil,uuid"`
	Supplier      *string          `json:"supplier" validate:"omitnil,uuid"`
	SKU           *string          `json:"sku" validate:"omitnil,min=1,max=50"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitnil,min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitnil,min=0"`
}

func (r productPatchRequest) toInput() (products.UpdateInput, error) {
	categoryID, err := validators.ParseOptionalUUIDField("category", r.Category)
	if err != nil {
		return products.UpdateInput{}, err
	}
	supplierID, err := validators.ParseOptionalUUIDField("supplier", r.Supplier)
	if err != nil {
		return products.UpdateInput{}, err
	}
	return products.UpdateInput{
		Name:          r.Name,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		SKU:           r.SKU,
		Description:   r.Description,
		UnitPrice:     r.UnitPrice,
		StockQuantity: r.StockQuantity,
		MinStockLevel: r.MinStockLevel,
	}, nil
}

// ProductList supports the category and supplier filters.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseOptionalUUIDQuery(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseOptionalUUIDQuery(r, "supplier")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), products.Filter{CategoryID: categoryID, SupplierID: supplierID}, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ProductSearch matches q against name, sku and description.
func ProductSearch(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), products.Filter{Query: validators.SearchTerm(r)}, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ProductLowStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.LowStock(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, productIDParam, "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, productIDParam, "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.UpdateInput
		if r.Method == http.MethodPatch {
			var body productPatchRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
		} else {
			var body productRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toUpdateInput()
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, productIDParam, "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
