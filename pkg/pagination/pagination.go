package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// MaxLimit caps how many rows a paged query can request.
	MaxLimit = 500
)

// Params holds optional offset pagination inputs. A zero Limit returns the full set.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the maximum limit; non-positive values disable paging.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FromQuery reads limit and offset from query values.
func FromQuery(values url.Values) (Params, error) {
	var params Params
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return Params{}, fmt.Errorf("limit must be a non-negative integer")
		}
		params.Limit = NormalizeLimit(limit)
	}
	if raw := strings.TrimSpace(values.Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Params{}, fmt.Errorf("offset must be a non-negative integer")
		}
		params.Offset = offset
	}
	return params, nil
}

// Scope applies the params to a GORM query.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	if limit := NormalizeLimit(p.Limit); limit > 0 {
		db = db.Limit(limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}
