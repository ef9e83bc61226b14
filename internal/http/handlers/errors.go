package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/http/respond"
	"github.com/hongminglow/payportal/internal/service"
)

const maxBodyBytes = 1 << 20

// statusFor maps service error kinds to HTTP status codes.
var statusFor = []struct {
	kind   error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusBadRequest},
	{service.ErrRecipientNotFound, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrMissingToken, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusForbidden},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrInvalidState, http.StatusConflict},
}

// writeServiceError is the single boundary where errors become responses.
// Unknown errors are logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		for _, m := range statusFor {
			if errors.Is(err, m.kind) {
				respond.Error(w, m.status, svcErr.Error())
				return
			}
		}
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func callerClaims(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "No token provided. Authorization denied.")
		return auth.Claims{}, false
	}
	return claims, true
}

func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}
