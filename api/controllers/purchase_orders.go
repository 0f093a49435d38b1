package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/supplychain-backend/api/middleware"
	"github.com/angelmondragon/supplychain-backend/api/responses"
	"github.com/angelmondragon/supplychain-backend/api/validators"
	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
)

const orderIDParam = "orderId"

type purchaseOrderRequest struct {
	OrderNumber          string           `json:"order_number" validate:"required,max=50"`
	Supplier             string           `json:"supplier" validate:"required,uuid"`
	OrderDate            string           `json:"order_date" validate:"required,datetime=2006-01-02"`
	ExpectedDeliveryDate string           `json:"expected_delivery_date" validate:"required,datetime=2006-01-02"`
	Status               string           `json:"status"`
	TotalAmount          *decimal.Decimal `json:"total_amount"`
	Notes                string           `json:"notes"`
	// CreatedBy is accepted and ignored; the caller is always the creator.
	CreatedBy *string `json:"created_by"`
}

func (r purchaseOrderRequest) toInput(createdBy uuid.UUID) (purchaseorders.Input, error) {
	supplierID, err := validators.ParseUUIDField("supplier", r.Supplier)
	if err != nil {
		return purchaseorders.Input{}, err
	}
	orderDate, err := validators.ParseDate("order_date", r.OrderDate)
	if err != nil {
		return purchaseorders.Input{}, err
	}
	expected, err := validators.ParseDate("expected_delivery_date", r.ExpectedDeliveryDate)
	if err != nil {
		return purchaseorders.Input{}, err
	}
	input := purchaseorders.Input{
		OrderNumber:          r.OrderNumber,
		SupplierID:           supplierID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Status:               enums.PurchaseOrderStatus(r.Status),
		Notes:                r.Notes,
		CreatedByID:          createdBy,
	}
	if r.TotalAmount != nil {
		input.TotalAmount = *r.TotalAmount
	}
	return input, nil
}

func (r purchaseOrderRequest) toUpdateInput() (purchaseorders.UpdateInput, error) {
	input, err := r.toInput(uuid.Nil)
	if err != nil {
		return purchaseorders.UpdateInput{}, err
	}
	if input.Status == "" {
		input.Status = enums.PurchaseOrderStatusPending
	}
	return purchaseorders.UpdateInput{
		OrderNumber:          &input.OrderNumber,
		SupplierID:           &input.SupplierID,
		OrderDate:            &input.OrderDate,
		ExpectedDeliveryDate: &input.ExpectedDeliveryDate,
		Status:               &input.Status,
		TotalAmount:          &input.TotalAmount,
		Notes:                &input.Notes,
	}, nil
}

type purchaseOrderPatchRequest struct {
	OrderNumber          *string          `json:"order_number" validate:"omitnil,max=50"`
	Supplier             *string          `json:"supplier" validate:"omitnil,uuid"`
	OrderDate            *string          `json:"order_date" validate:"omitnil,datetime=2006-01-02"`
	ExpectedDeliveryDate *string          `json:"expected_delivery_date" validate:"omitnil,datetime=2006-01-02"`
	Status               *string          `json:"status"`
	TotalAmount          *decimal.Decimal `json:"total_amount"`
	Notes                *string          `json:"notes"`
	CreatedBy            *string          `json:"created_by"`
}

func (r purchaseOrderPatchRequest) toInput() (purchaseorders.UpdateInput, error) {
	supplierID, err := validators.ParseOptionalUUIDField("supplier", r.Supplier)
	if err != nil {
		return purchaseorders.UpdateInput{}, err
	}
	orderDate, err := validators.ParseOptionalDate("order_date", r.OrderDate)
	if err != nil {
		return purchaseorders.UpdateInput{}, err
	}
	expected, err := validators.ParseOptionalDate("expected_delivery_date", r.ExpectedDeliveryDate)
	if err != nil {
		return purchaseorders.UpdateInput{}, err
	}
	input := purchaseorders.UpdateInput{
		OrderNumber:          r.OrderNumber,
		SupplierID:           supplierID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		TotalAmount:          r.TotalAmount,
		Notes:                r.Notes,
	}
	if r.Status != nil {
		status := enums.PurchaseOrderStatus(*r.Status)
		input.Status = &status
	}
	return input, nil
}

// PurchaseOrderList supports the status and supplier filters.
func PurchaseOrderList(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseOptionalStatusQuery(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseOptionalUUIDQuery(r, "supplier")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), purchaseorders.Filter{Status: status, SupplierID: supplierID}, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// PurchaseOrderCreate stamps the authenticated caller as the creator.
func PurchaseOrderCreate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		callerID := middleware.CallerID(r.Context())
		if callerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var body purchaseOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(callerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func PurchaseOrderDetail(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, orderIDParam, "purchase order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func PurchaseOrderUpdate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, orderIDParam, "purchase order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input purchaseorders.UpdateInput
		if r.Method == http.MethodPatch {
			var body purchaseOrderPatchRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
		} else {
			var body purchaseOrderRequest
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

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func PurchaseOrderDelete(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, orderIDParam, "purchase order")
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

type orderAction func(context.Context, uuid.UUID) (*purchaseorders.OrderDTO, error)

// PurchaseOrderAction adapts one of the status actions (approve, ship,
// receive, cancel) to an endpoint that returns the updated order.
func PurchaseOrderAction(svc purchaseorders.Service, action string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		var run orderAction
		switch action {
		case "approve":
			run = svc.Approve
		case "ship":
			run = svc.Ship
		case "receive":
			run = svc.Receive
		case "cancel":
			run = svc.Cancel
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown action"))
			return
		}

		id, err := validators.ParseIDParam(r, orderIDParam, "purchase order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := run(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func PurchaseOrderDashboard(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
