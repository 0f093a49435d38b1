package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraint is provided the constraint (or sqlite column list) must mention it.
func IsUniqueViolation(err error, constraint string) bool {
	return matchesViolation(err, pgUniqueViolation, []string{"duplicate key value", "UNIQUE constraint failed"}, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key constraint failure.
func IsForeignKeyViolation(err error) bool {
	return matchesViolation(err, pgForeignKeyViolation, []string{"violates foreign key constraint", "FOREIGN KEY constraint failed"}, "")
}

func matchesViolation(err error, pgCode string, fragments []string, constraint string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgCode && (constraint == "" || strings.Contains(pgxErr.ConstraintName, constraint) || strings.Contains(pgxErr.Detail, constraint))
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCode && (constraint == "" || strings.Contains(pqErr.Constraint, constraint) || strings.Contains(pqErr.Detail, constraint))
	}

	msg := err.Error()
	for _, fragment := range fragments {
		if strings.Contains(msg, fragment) {
			return constraint == "" || strings.Contains(msg, constraint)
		}
	}
	return false
}
