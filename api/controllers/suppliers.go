package controllers

import (
	"net/http"

	"github.com/angelmondragon/supplychain-backend/api/responses"
	"github.com/angelmondragon/supplychain-backend/api/validators"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
)

const supplierIDParam = "supplierId"

type supplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,max=20"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"address" validate:"required"`
}

func (r supplierRequest) toInput() suppliers.Input {
	return suppliers.Input{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
	}
}

type supplierPatchRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1,max=200"`
	ContactPerson *string `json:"contact_person" validate:"omitnil,min=1,max=100"`
	Phone         *string `json:"phone" validate:"omitnil,min=1,max=20"`
	Email         *string `json:"email" validate:"omitnil,email"`
	Address       *string `json:"address" validate:"omitnil,min=1"`
}

func (r supplierPatchRequest) toInput() suppliers.UpdateInput {
	return suppliers.UpdateInput{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
	}
}

func replaceSupplier(r supplierRequest) suppliers.UpdateInput {
	return supplierPatchRequest{
		Name:          &r.Name,
		ContactPerson: &r.ContactPerson,
		Phone:         &r.Phone,
		Email:         &r.Email,
		Address:       &r.Address,
	}.toInput()
}

// SupplierList returns every supplier, optionally paged.
func SupplierList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return supplierListing(svc, logg, false)
}

// SupplierSearch matches q against name, contact person and phone.
func SupplierSearch(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return supplierListing(svc, logg, true)
}

func supplierListing(svc suppliers.Service, logg *logger.Logger, search bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliers.ListInput{Page: page}
		if search {
			input.Query = validators.SearchTerm(r)
		}

		rows, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func SupplierCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var body supplierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

func SupplierDetail(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, supplierIDParam, "supplier")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// SupplierUpdate serves both PUT (full replacement) and PATCH (partial).
func SupplierUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, supplierIDParam, "supplier")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input suppliers.UpdateInput
		if r.Method == http.MethodPatch {
			var body supplierPatchRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = body.toInput()
		} else {
			var body supplierRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = replaceSupplier(body)
		}

		supplier, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

func SupplierDelete(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, supplierIDParam, "supplier")
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
