// Package postgres holds the GORM-backed repository implementations for the
// clinical, auth and audit schemas.
package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation enabled.
	return strings.Contains(err.Error(), "duplicate key value")
}
