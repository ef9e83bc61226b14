package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/http/respond"
	"github.com/hongminglow/payportal/internal/service"
)

// TokenVerifier turns a raw bearer token into caller claims.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

// RequireAuth verifies the bearer token and stores the caller's claims in
// the request context. Missing tokens get 401, bad or expired ones 403.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.VerifyToken(bearerToken(r))
			if err != nil {
				status := http.StatusForbidden
				if errors.Is(err, service.ErrMissingToken) {
					status = http.StatusUnauthorized
				}
				respond.Error(w, status, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// Require admits the request only if gate allows the authenticated caller.
// It must run after RequireAuth.
func Require(gate auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "No token provided. Authorization denied.")
				return
			}
			if err := gate.Allow(claims); err != nil {
				respond.Error(w, http.StatusForbidden, "Access denied. Admins only.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
