package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/middleware"
	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/service"
	"github.com/hongminglow/payportal/internal/storage/postgres"
)

// TestAuthIntegration exercises register, login and profile against the database in DATABASE_URL.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	issuer := mustGetEnv(t, "JWT_ISSUER")
	ttl := mustGetTTL(t)
	svc := service.NewAuthService(store, auth.NewTokenManager(secret, issuer, ttl))

	mux := http.NewServeMux()
	NewAuthHandler(svc).Register(mux, middleware.RequireAuth(svc))

	ts := httptest.NewServer(mux)
	defer ts.Close()

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("apitest_%d", suffix)
	account := fmt.Sprintf("AC%d", suffix)
	password := fmt.Sprintf("Pass!%d", suffix)

	requestRegister(t, ts.URL, map[string]string{
		"name":            "API Test",
		"idNumber":        fmt.Sprintf("ID%d", suffix),
		"username":        username,
		"accountNumber":   account,
		"password":        password,
		"confirmPassword": password,
	})

	loggedIn := requestLogin(t, ts.URL, username, password)
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}
	if loggedIn.User.Username != username || loggedIn.User.AccountNumber != account {
		t.Fatalf("login returned wrong user: %+v", loggedIn.User)
	}

	profile := requestProfile(t, ts.URL, loggedIn.Token)
	if profile.ID != loggedIn.User.ID || profile.Role != models.RoleUser {
		t.Fatalf("profile mismatch: got %+v", profile)
	}

	if err := store.DeleteUser(ctx, profile.ID); err != nil {
		t.Logf("cleanup user %s: %v", profile.ID, err)
	}
	t.Logf("registered %s (id=%s), logged in and fetched profile", username, profile.ID)
}

type loginResponseBody struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	return resp
}

func requestRegister(t *testing.T, baseURL string, payload map[string]string) {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/user/register", payload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
}

func requestLogin(t *testing.T, baseURL, username, password string) loginResponseBody {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/user/login", map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var out loginResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return out
}

func requestProfile(t *testing.T, baseURL, token string) models.User {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/user/profile", nil)
	if err != nil {
		t.Fatalf("build profile request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}

	var out models.User
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile response: %v", err)
	}
	return out
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := mustGetEnv(t, "JWT_TTL_MINUTES")
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
