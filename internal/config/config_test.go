package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/payportal")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TLS_CERT_FILE", "")
	t.Setenv("TLS_KEY_FILE", "")
	t.Setenv("ADMIN_USERNAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.TLSEnabled())
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8443")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://localhost:3000, https://portal.example")
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	t.Setenv("TLS_KEY_FILE", "key.pem")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8443", cfg.HTTPAddress())
	assert.Equal(t, []string{"https://localhost:3000", "https://portal.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.TLSEnabled())
}

func TestTokenLifetimeIsFixed(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_TTL_MINUTES", "15")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")

	t.Setenv("DATABASE_URL", "postgres://localhost/payportal")
	t.Setenv("JWT_SECRET", " ")
	_, err = Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoadRequiresTLSPair(t *testing.T) {
	setRequired(t)
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	t.Setenv("TLS_KEY_FILE", "")
	_, err := Load()
	assert.Error(t, err)
}
