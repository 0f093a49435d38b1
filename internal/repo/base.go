package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Raw returns the unbound connection, used to derive transactional repositories.
func (b Base) Raw() *gorm.DB {
	return b.db
}

// DeleteByID hard-deletes the row of T with the given id and reports whether one existed.
func DeleteByID[T any](ctx context.Context, b Base, id uuid.UUID) (bool, error) {
	var model T
	res := b.DB(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Paged applies optional limit/offset params.
func Paged(page pagination.Params) func(*gorm.DB) *gorm.DB {
	return page.Scope
}
