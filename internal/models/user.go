package models

import (
	"time"

	"github.com/google/uuid"
)

// User captures application-facing fields for a registered principal.
type User struct {
	ID            uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	IDNumber      string    `json:"idNumber"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"accountNumber"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
