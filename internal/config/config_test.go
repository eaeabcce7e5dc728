package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing backend url", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BACKEND_URL")
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://localhost:8080/")
		t.Setenv("ENV", "")
		t.Setenv("ASSET_BASE_URL", "")
		t.Setenv("CART_COOKIE_SECRET", "")
		t.Setenv("BACKEND_TIMEOUT", "")
		t.Setenv("HEADER_MAX_CATEGORIES", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
		assert.Equal(t, "http://localhost:8080", cfg.Backend.AssetBaseURL)
		assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, 6, cfg.Catalog.HeaderMaxCategories)
		assert.Equal(t, devCartSecret, cfg.Session.CartCookieSecret)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://api.internal")
		t.Setenv("ASSET_BASE_URL", "https://cdn.example.com/")
		t.Setenv("BACKEND_TIMEOUT", "3s")
		t.Setenv("HEADER_MAX_CATEGORIES", "4")
		t.Setenv("CART_COOKIE_SECRET", "s3cret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com", cfg.Backend.AssetBaseURL)
		assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, 4, cfg.Catalog.HeaderMaxCategories)
		assert.Equal(t, "s3cret", cfg.Session.CartCookieSecret)
	})

	t.Run("invalid numbers are reported", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://api.internal")
		t.Setenv("HEADER_MAX_CATEGORIES", "many")
		t.Setenv("BACKEND_TIMEOUT", "soon")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HEADER_MAX_CATEGORIES")
		assert.Contains(t, err.Error(), "BACKEND_TIMEOUT")
	})

	t.Run("non-positive durations are rejected", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://api.internal")
		t.Setenv("WORKER_INTERVAL", "0s")
		t.Setenv("SESSION_TTL", "-1h")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WORKER_INTERVAL")
		assert.Contains(t, err.Error(), "SESSION_TTL")
	})

	t.Run("production requires cart secret", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://api.internal")
		t.Setenv("ENV", "production")
		t.Setenv("CART_COOKIE_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CART_COOKIE_SECRET")
	})
}
