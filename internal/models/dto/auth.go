package dto

import "github.com/hongminglow/payportal/internal/models"

type RegisterRequest struct {
	Name            string `json:"name"`
	IDNumber        string `json:"idNumber"`
	Username        string `json:"username"`
	AccountNumber   string `json:"accountNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
