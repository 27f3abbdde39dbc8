package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE codes from https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		hasPQCode(err, pqUniqueViolation) ||
		containsFold(err, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err came from a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		hasPQCode(err, pqForeignKeyViolation) ||
		containsFold(err, "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err came from a CHECK constraint.
func IsCheckViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) ||
		hasPQCode(err, pqCheckViolation) ||
		containsFold(err, "CHECK constraint failed")
}

func hasPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func containsFold(err error, substr string) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr))
}
