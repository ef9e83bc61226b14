package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// TokenTTL is the fixed lifetime of issued access tokens.
const TokenTTL = time.Hour

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string
	TLSCertFile string
	TLSKeyFile  string
	Admin       AdminSeed
}

// AdminSeed is the account created at startup when no admin exists.
type AdminSeed struct {
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	Password      string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "5000"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "payportal"),
		JWTTTL:      TokenTTL,
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		TLSCertFile: strings.TrimSpace(os.Getenv("TLS_CERT_FILE")),
		TLSKeyFile:  strings.TrimSpace(os.Getenv("TLS_KEY_FILE")),
		Admin: AdminSeed{
			Name:          fallback(os.Getenv("ADMIN_NAME"), "Default Admin"),
			IDNumber:      fallback(os.Getenv("ADMIN_ID_NUMBER"), "0000000000000"),
			Username:      fallback(os.Getenv("ADMIN_USERNAME"), "admin"),
			AccountNumber: fallback(os.Getenv("ADMIN_ACCOUNT_NUMBER"), "0000000000"),
			Password:      fallback(os.Getenv("ADMIN_PASSWORD"), "admin123"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return Config{}, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// TLSEnabled reports whether the server should terminate TLS itself.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
