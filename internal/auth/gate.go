package auth

import (
	"errors"

	"github.com/hongminglow/payportal/internal/models"
)

// ErrForbidden is returned by a Gate that refuses the caller.
var ErrForbidden = errors.New("access denied")

// Gate decides whether a verified caller may proceed.
type Gate interface {
	Allow(Claims) error
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(Claims) error

func (f GateFunc) Allow(c Claims) error { return f(c) }

// RoleGate admits callers holding exactly the given role.
func RoleGate(role models.Role) Gate {
	return GateFunc(func(c Claims) error {
		if c.Role != role {
			return ErrForbidden
		}
		return nil
	})
}

// AdminGate admits administrators only.
var AdminGate = RoleGate(models.RoleAdmin)
