package controllers

import (
	"net/http"

	"github.com/angelmondragon/supplychain-backend/api/responses"
	"github.com/angelmondragon/supplychain-backend/api/validators"
	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
)

const inventoryIDParam = "inventoryId"

type inventoryRequest struct {
	Product       string `json:"product" validate:"required,uuid"`
	CurrentStock  *int   `json:"current_stock" validate:"omitnil,min=0"`
	ReservedStock *int   `json:"reserved_stock" validate:"omitnil,min=0"`
	// AvailableStock is derived and ignored on input.
	AvailableStock *int `json:"available_stock"`
}

func (r inventoryRequest) toInput() (inventory.Input, error) {
	productID, err := validators.ParseUUIDField("product", r.Product)
	if err != nil {
		return inventory.Input{}, err
	}
	input := inventory.Input{ProductID: productID}
	if r.CurrentStock != nil {
		input.CurrentStock = *r.CurrentStock
	}
	if r.ReservedStock != nil {
		input.ReservedStock = *r.ReservedStock
	}
	return input, nil
}

type inventoryPatchRequest struct {
	Product        *string `json:"product" validate:"omitnil,uuid"`
	CurrentStock   *int    `json:"current_stock" validate:"omitnil,min=0"`
	ReservedStock  *int    `json:"reserved_stock" validate:"omitnil,min=0"`
	AvailableStock *int    `json:"available_stock"`
}

func (r inventoryPatchRequest) toInput() (inventory.UpdateInput, error) {
	productID, err := validators.ParseOptionalUUIDField("product", r.Product)
	if err != nil {
		return inventory.UpdateInput{}, err
	}
	return inventory.UpdateInput{
		ProductID:     productID,
		CurrentStock:  r.CurrentStock,
		ReservedStock: r.ReservedStock,
	}, nil
}

func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return inventoryListing(svc, logg, false)
}

// InventoryLowStock lists rows at or below their product's minimum level.
func InventoryLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return inventoryListing(svc, logg, true)
}

func inventoryListing(svc inventory.Service, logg *logger.Logger, lowStock bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rows []inventory.InventoryDTO
		if lowStock {
			rows, err = svc.LowStock(r.Context(), page)
		} else {
			rows, err = svc.List(r.Context(), page)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body inventoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func InventoryDetail(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, inventoryIDParam, "inventory")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, inventoryIDParam, "inventory")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input inventory.UpdateInput
		if r.Method == http.MethodPatch {
			var body inventoryPatchRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
		} else {
			var body inventoryRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var full inventory.Input
			full, err = body.toInput()
			input = inventory.UpdateInput{
				ProductID:     &full.ProductID,
				CurrentStock:  &full.CurrentStock,
				ReservedStock: &full.ReservedStock,
			}
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func InventoryDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, inventoryIDParam, "inventory")
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

func InventoryDashboard(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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
