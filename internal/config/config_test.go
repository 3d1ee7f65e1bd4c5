package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/staygo")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("SESSION_SECRET", "unit-test-secret")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "usd", cfg.Currency)
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL_HOURS", "48")
	t.Setenv("CURRENCY", "eur")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_456")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 48*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, "pk_test_456", cfg.Stripe.PublishableKey)
}

func TestNew_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"database url", "DATABASE_URL"},
		{"stripe secret", "STRIPE_SECRET_KEY"},
		{"session secret", "SESSION_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.omit, "")

			_, err := New()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.omit)
		})
	}
}

func TestNew_InvalidPort(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := New()
	require.Error(t, err)
}
