package handlers

import (
	"net/http"

	"github.com/hongminglow/payportal/internal/http/respond"
	"github.com/hongminglow/payportal/internal/models/dto"
	"github.com/hongminglow/payportal/internal/service"
)

// AuthHandler owns register, login and profile endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register attaches auth routes to the mux. protect guards authenticated routes.
func (h *AuthHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/user/register", h.handleRegister)
	mux.HandleFunc("POST /api/user/login", h.handleLogin)
	mux.Handle("GET /api/user/profile", protect(http.HandlerFunc(h.handleProfile)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	_, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		IDNumber:        req.IDNumber,
		Username:        req.Username,
		AccountNumber:   req.AccountNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.MessageResponse{Message: "You have successfully registered! You can now log in."})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Message: "Login successful", Token: token, User: user})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
