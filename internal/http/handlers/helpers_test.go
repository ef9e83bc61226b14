package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/middleware"
	"github.com/hongminglow/payportal/internal/service"
	"github.com/hongminglow/payportal/internal/storage/memory"
)

type testAPI struct {
	mux   *http.ServeMux
	store *memory.Store
	auth  *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenManager("handler-secret", "payportal-test", time.Hour)

	tick := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	clock := service.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	authSvc := service.NewAuthService(store, tokens, clock)

	mux := http.NewServeMux()
	protect := middleware.RequireAuth(authSvc)
	admin := func(next http.Handler) http.Handler {
		return middleware.Chain(next, protect, middleware.Require(auth.AdminGate))
	}
	NewHealthHandler(time.Now(), store).Register(mux)
	NewAuthHandler(authSvc).Register(mux, protect)
	NewPaymentHandler(service.NewPaymentService(store, store, clock)).Register(mux, protect, admin)
	NewAdminHandler(service.NewAdminService(store, clock)).Register(mux, admin)

	return &testAPI{mux: mux, store: store, auth: authSvc}
}

// do performs a request and decodes the JSON response into out when non-nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out), rec.Body.String())
	}
	return rec.Code
}

func (a *testAPI) register(t *testing.T, username, idNumber, account string) {
	t.Helper()
	code := a.do(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name":            "Name " + username,
		"idNumber":        idNumber,
		"username":        username,
		"accountNumber":   account,
		"password":        "secret123",
		"confirmPassword": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, code)
}

func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	code := a.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"username": username, "password": password}, &out)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (a *testAPI) seedAdmin(t *testing.T) string {
	t.Helper()
	_, err := a.auth.SeedDefaultAdmin(t.Context(), service.AdminSeed{
		Name: "Default Admin", IDNumber: "0000000000000", Username: "admin", AccountNumber: "0000000000", Password: "admin123",
	})
	require.NoError(t, err)
	return a.login(t, "admin", "admin123")
}

type errorBody struct {
	Error string `json:"error"`
}
