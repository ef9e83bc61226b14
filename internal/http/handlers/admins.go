package handlers

import (
	"net/http"

	"github.com/hongminglow/payportal/internal/http/respond"
	"github.com/hongminglow/payportal/internal/models/dto"
	"github.com/hongminglow/payportal/internal/service"
)

// AdminHandler exposes administrator management. Every route is admin-only.
type AdminHandler struct {
	svc *service.AdminService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Register attaches admin routes behind the admin middleware.
func (h *AdminHandler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/user/admins", admin(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/user/admins", admin(http.HandlerFunc(h.handleCreate)))
	mux.Handle("PUT /api/user/admins/{id}", admin(http.HandlerFunc(h.handleEdit)))
	mux.Handle("DELETE /api/user/admins/{id}", admin(http.HandlerFunc(h.handleDelete)))
}

func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.ListAdmins(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	admin, err := h.svc.CreateAdmin(r.Context(), service.AdminInput{
		Name:          req.Name,
		IDNumber:      req.IDNumber,
		Username:      req.Username,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.AdminResponse{Message: "Admin created successfully", Admin: admin})
}

func (h *AdminHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "admin")
	if !ok {
		return
	}
	var req dto.EditAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	admin, err := h.svc.EditAdmin(r.Context(), id, service.AdminDetails{
		Name:          req.Name,
		Username:      req.Username,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AdminResponse{Message: "Admin updated successfully", Admin: admin})
}

func (h *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "admin")
	if !ok {
		return
	}
	if err := h.svc.DeleteAdmin(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Admin deleted successfully"})
}
