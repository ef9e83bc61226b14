package handlers

import (
	"net/http"

	"github.com/hongminglow/payportal/internal/http/respond"
	"github.com/hongminglow/payportal/internal/models/dto"
	"github.com/hongminglow/payportal/internal/service"
)

// PaymentHandler exposes the payment lifecycle over HTTP.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Register attaches payment routes. protect authenticates the caller and
// admin additionally applies the admin gate.
func (h *PaymentHandler) Register(mux *http.ServeMux, protect, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/user/payments", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/user/payments", protect(http.HandlerFunc(h.handleCreate)))
	mux.Handle("DELETE /api/user/payments/{id}", protect(http.HandlerFunc(h.handleDelete)))
	mux.Handle("GET /api/user/transactions/pending", admin(http.HandlerFunc(h.handlePending)))
	mux.Handle("POST /api/user/payments/{id}/approve", admin(http.HandlerFunc(h.handleApprove)))
	mux.Handle("POST /api/user/payments/{id}/deny", admin(http.HandlerFunc(h.handleDeny)))
}

func (h *PaymentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.ListPaymentsForUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	payment, err := h.svc.CreatePayment(r.Context(), claims.UserID, service.PaymentInput{
		Amount:                 string(req.Amount),
		Currency:               req.Currency,
		BeneficiaryName:        req.BeneficiaryName,
		PaymentReference:       req.PaymentReference,
		RecipientAccountNumber: req.RecipientAccountNumber,
		UserAccountNumber:      req.UserAccountNumber,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.PaymentResponse{Message: "Payment successful", Payment: payment})
}

func (h *PaymentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "payment")
	if !ok {
		return
	}
	if err := h.svc.DeletePayment(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Payment deleted successfully"})
}

func (h *PaymentHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPendingPayments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payment")
	if !ok {
		return
	}
	payment, err := h.svc.ApprovePayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.PaymentResponse{Message: "Payment approved", Payment: payment})
}

func (h *PaymentHandler) handleDeny(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payment")
	if !ok {
		return
	}
	payment, err := h.svc.DenyPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.PaymentResponse{Message: "Payment denied", Payment: payment})
}
