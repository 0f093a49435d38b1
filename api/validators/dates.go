package validators

import (
	"time"

	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
)

// DateLayout is the accepted calendar date format.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value as midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.FieldError(field, "must be a date formatted as "+DateLayout)
	}
	return parsed, nil
}

// ParseOptionalDate parses raw when present.
func ParseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := ParseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
