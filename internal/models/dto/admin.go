package dto

import "github.com/hongminglow/payportal/internal/models"

type CreateAdminRequest struct {
	Name          string `json:"name"`
	IDNumber      string `json:"idNumber"`
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

// EditAdminRequest ignores any password or role the client sends.
type EditAdminRequest struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
}

type AdminResponse struct {
	Message string      `json:"message"`
	Admin   models.User `json:"admin"`
}
