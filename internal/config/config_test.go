package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "STORE_DRIVER", "DATABASE_URL",
		"BLUEPRINT_DB_HOST", "BLUEPRINT_DB_PORT", "BLUEPRINT_DB_USERNAME",
		"BLUEPRINT_DB_PASSWORD", "BLUEPRINT_DB_DATABASE", "BLUEPRINT_DB_SCHEMA",
		"JWT_SECRET", "TOKEN_TTL", "ALLOW_ROLE_ON_REGISTER",
		"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "RAZORPAY_BASE_URL",
		"PAYMENT_CURRENCY", "GATEWAY_TIMEOUT", "UPLOADS_DIR", "CORS_ORIGINS",
		"RECONCILE_INTERVAL", "RECONCILE_STALE_AFTER", "RECONCILE_EXPIRE_AFTER",
		"HIDE_INTERNAL_ERRORS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.False(t, cfg.UsesRazorpay())
	assert.False(t, cfg.AllowRoleOnRegister)
	assert.False(t, cfg.HideInternalErrors)
}

func TestLoadHideInternalErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("HIDE_INTERNAL_ERRORS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HideInternalErrors)

	t.Setenv("HIDE_INTERNAL_ERRORS", "sometimes")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadBlueprintDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLUEPRINT_DB_HOST", "db")
	t.Setenv("BLUEPRINT_DB_USERNAME", "u")
	t.Setenv("BLUEPRINT_DB_PASSWORD", "p")
	t.Setenv("BLUEPRINT_DB_DATABASE", "courses")
	t.Setenv("BLUEPRINT_DB_SCHEMA", "public")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/courses?sslmode=disable&search_path=public", cfg.DatabaseURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"missing database", map[string]string{"STORE_DRIVER": "postgres"}},
		{"bad duration", map[string]string{"STORE_DRIVER": "memory", "TOKEN_TTL": "soon"}},
		{"negative duration", map[string]string{"STORE_DRIVER": "memory", "RECONCILE_INTERVAL": "-1s"}},
		{"bad bool", map[string]string{"STORE_DRIVER": "memory", "ALLOW_ROLE_ON_REGISTER": "maybe"}},
		{"production without secret", map[string]string{"STORE_DRIVER": "memory", "ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
