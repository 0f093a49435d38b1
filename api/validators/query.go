package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// maxSearchLength bounds the free-text search term.
const maxSearchLength = 200

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePage reads the optional limit and offset query parameters.
func ParsePage(r *http.Request) (pagination.Params, error) {
	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		return pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination")
	}
	return page, nil
}

// SearchTerm returns the q parameter truncated to the search limit. Whitespace
// is kept so a blank-but-present term still filters; empty matches everything.
func SearchTerm(r *http.Request) string {
	return truncateRunes(r.URL.Query().Get("q"), maxSearchLength)
}

// ParseIDParam parses the named chi path parameter as a UUID. Malformed ids
// cannot match a row, so they are reported as not found.
func ParseIDParam(r *http.Request, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return uuid.Nil, pkgerrors.NotFound(resource)
	}
	return id, nil
}

// ParseOptionalUUIDQuery parses an optional UUID filter parameter.
func ParseOptionalUUIDQuery(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.FieldError(key, "must be a valid UUID")
	}
	return &id, nil
}

// ParseOptionalStatusQuery parses an optional purchase order status filter.
func ParseOptionalStatusQuery(r *http.Request, key string) (*enums.PurchaseOrderStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParsePurchaseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.FieldError(key, err.Error())
	}
	return &status, nil
}

// ParseUUIDField parses a body value already checked by the uuid validate tag.
func ParseUUIDField(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.FieldError(field, "must be a valid UUID")
	}
	return id, nil
}

// ParseOptionalUUIDField parses raw when present.
func ParseOptionalUUIDField(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := ParseUUIDField(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
