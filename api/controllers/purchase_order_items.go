package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/supplychain-backend/api/responses"
	"github.com/angelmondragon/supplychain-backend/api/validators"
	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
)

const itemIDParam = "itemId"

type orderItemRequest struct {
	PurchaseOrder string           `json:"purchase_order" validate:"required,uuid"`
	Product       string           `json:"product" validate:"required,uuid"`
	Quantity      int              `json:"quantity" validate:"required,min=1,max=2147483647"`
	UnitPrice     *decimal.Decimal `json:"unit_price" validate:"required"`
	// TotalPrice is derived and ignored on input.
	TotalPrice *decimal.Decimal `json:"total_price"`
}

func (r orderItemRequest) toInput() (purchaseorders.ItemInput, error) {
	orderID, err := validators.ParseUUIDField("purchase_order", r.PurchaseOrder)
	if err != nil {
		return purchaseorders.ItemInput{}, err
	}
	productID, err := validators.ParseUUIDField("product", r.Product)
	if err != nil {
		return purchaseorders.ItemInput{}, err
	}
	return purchaseorders.ItemInput{
		PurchaseOrderID: orderID,
		ProductID:       productID,
		Quantity:        r.Quantity,
		UnitPrice:       *r.UnitPrice,
	}, nil
}

type orderItemPatchRequest struct {
	PurchaseOrder *string          `json:"purchase_order" validate:"omitnil,uuid"`
	Product       *string          `json:"product" validate:"omitnil,uuid"`
	Quantity      *int             `json:"quantity" validate:"omitnil,min=1,max=2147483647"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	TotalPrice    *decimal.Decimal `json:"total_price"`
}

func (r orderItemPatchRequest) toInput() (purchaseorders.ItemUpdateInput, error) {
	orderID, err := validators.ParseOptionalUUIDField("purchase_order", r.PurchaseOrder)
	if err != nil {
		return purchaseorders.ItemUpdateInput{}, err
	}
	productID, err := validators.ParseOptionalUUIDField("product", r.Product)
	if err != nil {
		return purchaseorders.ItemUpdateInput{}, err
	}
	return purchaseorders.ItemUpdateInput{
		PurchaseOrderID: orderID,
		ProductID:       productID,
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice,
	}, nil
}

// OrderItemList supports the purchase_order filter.
func OrderItemList(svc purchaseorders.ItemService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order item service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseOptionalUUIDQuery(r, "purchase_order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), purchaseorders.ItemFilter{PurchaseOrderID: orderID}, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func OrderItemCreate(svc purchaseorders.ItemService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order item service unavailable"))
			return
		}

		var body orderItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func OrderItemDetail(svc purchaseorders.ItemService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order item service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, itemIDParam, "purchase order item")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func OrderItemUpdate(svc purchaseorders.ItemService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order item service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, itemIDParam, "purchase order item")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input purchaseorders.ItemUpdateInput
		if r.Method == http.MethodPatch {
			var body orderItemPatchRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
		} else {
			var body orderItemRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var full purchaseorders.ItemInput
			full, err = body.toInput()
			input = purchaseorders.ItemUpdateInput{
				PurchaseOrderID: &full.PurchaseOrderID,
				ProductID:       &full.ProductID,
				Quantity:        &full.Quantity,
				UnitPrice:       &full.UnitPrice,
			}
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func OrderItemDelete(svc purchaseorders.ItemService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order item service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, itemIDParam, "purchase order item")
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
