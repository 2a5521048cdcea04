package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique constraint violation.
// Both dialectors translate it to gorm.ErrDuplicatedKey when TranslateError
// is set; the message check covers connections opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
