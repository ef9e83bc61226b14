package service

import (
	"errors"
	"strings"

	"github.com/hongminglow/payportal/internal/storage"
)

const minPasswordLength = 6

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return newError(ErrValidation, "Password must be at least 6 characters.")
	}
	return nil
}

// conflictError turns a storage uniqueness violation into a user-facing
// ConflictError. Other errors pass through unchanged.
func conflictError(err error) error {
	var uv *storage.UniqueViolation
	if !errors.As(err, &uv) {
		return err
	}
	switch uv.Field {
	case "username":
		return newError(ErrConflict, "Username is already taken.")
	case "id_number":
		return newError(ErrConflict, "A user with this ID number already exists.")
	case "account_number":
		return newError(ErrConflict, "A user with this account number already exists.")
	default:
		return newError(ErrConflict, "User already exists.")
	}
}
