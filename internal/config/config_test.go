package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 72, cfg.Auth.CookieExpiryHours)
	assert.Equal(t, 72*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 20*time.Minute, cfg.Auth.ResetCodeTTL)
	assert.Equal(t, devSecretKey, cfg.Auth.SecretKey)
	assert.Equal(t, "lax", cfg.Auth.CookieSameSite)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, uint32(65536), cfg.Auth.Argon.Memory)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.SMTP.Configured())
	assert.Len(t, cfg.TrustedProxies, 5)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_AuthOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "a-secret")
	t.Setenv("COOKIE_EXPIRY", "5")
	t.Setenv("RESET_CODE_TTL", "2h")
	t.Setenv("COOKIE_SAMESITE", "None")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "a-secret", cfg.Auth.SecretKey)
	assert.Equal(t, 5*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 2*time.Hour, cfg.Auth.ResetCodeTTL)
	assert.Equal(t, "none", cfg.Auth.CookieSameSite)
	assert.True(t, cfg.Auth.CookieSecure, "SameSite=None requires Secure")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero cookie expiry", "COOKIE_EXPIRY", "0"},
		{"negative reset ttl", "RESET_CODE_TTL", "-1m"},
		{"unknown samesite", "COOKIE_SAMESITE", "sometimes"},
		{"non numeric port", "PORT", "eighty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_ProductionRequirements(t *testing.T) {
	t.Setenv("ENV", "Production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")

	t.Setenv("JWT_SECRET_KEY", "short")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET_KEY", strings.Repeat("k", 32))
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")

	t.Setenv("SMTP_HOST", "smtp.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Auth.CookieSecure)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "mariadb", User: "shop", Password: "p@ss:word", Name: "store"}
	dsn := d.DSN()

	assert.Contains(t, dsn, "tcp(mariadb:3306)")
	assert.Contains(t, dsn, "/store")
	assert.Contains(t, dsn, "parseTime=true")

	d.URL = "user:pw@tcp(db:3307)/other"
	assert.Equal(t, "user:pw@tcp(db:3307)/other", d.DSN())
}
