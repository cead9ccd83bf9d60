package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CONNECTOR_APP_NAME":                         os.Getenv("CONNECTOR_APP_NAME"),
		"CONNECTOR_APP_ENV":                          os.Getenv("CONNECTOR_APP_ENV"),
		"CONNECTOR_APP_PORT":                         os.Getenv("CONNECTOR_APP_PORT"),
		"CONNECTOR_LOG_LEVEL":                        os.Getenv("CONNECTOR_LOG_LEVEL"),
		"CONNECTOR_MARKETPLACE_SANDBOX":              os.Getenv("CONNECTOR_MARKETPLACE_SANDBOX"),
		"CONNECTOR_MARKETPLACE_REQUEST_TIMEOUT":      os.Getenv("CONNECTOR_MARKETPLACE_REQUEST_TIMEOUT"),
		"CONNECTOR_MARKETPLACE_RETRY_ATTEMPTS":       os.Getenv("CONNECTOR_MARKETPLACE_RETRY_ATTEMPTS"),
		"CONNECTOR_MARKETPLACE_BATCH_CONCURRENCY":    os.Getenv("CONNECTOR_MARKETPLACE_BATCH_CONCURRENCY"),
		"CONNECTOR_MARKETPLACE_DEFAULT_ORDER_WINDOW": os.Getenv("CONNECTOR_MARKETPLACE_DEFAULT_ORDER_WINDOW"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "connector-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stdout", cfg.Log.Output)
		assert.False(t, cfg.Marketplace.Sandbox)
		assert.Equal(t, 30*time.Second, cfg.Marketplace.RequestTimeout)
		assert.Equal(t, 3, cfg.Marketplace.RetryAttempts)
		assert.Equal(t, time.Second, cfg.Marketplace.RetryDelay)
		assert.Equal(t, 4, cfg.Marketplace.BatchConcurrency)
		assert.Equal(t, 168*time.Hour, cfg.Marketplace.DefaultOrderWindow)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONNECTOR_APP_NAME", "connector-test")
		os.Setenv("CONNECTOR_APP_PORT", "9090")
		os.Setenv("CONNECTOR_LOG_LEVEL", "debug")
		os.Setenv("CONNECTOR_MARKETPLACE_SANDBOX", "true")
		os.Setenv("CONNECTOR_MARKETPLACE_REQUEST_TIMEOUT", "5s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "connector-test", cfg.App.Name)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Marketplace.Sandbox)
		assert.Equal(t, 5*time.Second, cfg.Marketplace.RequestTimeout)
	})

	t.Run("rejects sandbox in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONNECTOR_APP_ENV", "production")
		os.Setenv("CONNECTOR_MARKETPLACE_SANDBOX", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox")
	})

	t.Run("rejects nonpositive batch concurrency", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONNECTOR_MARKETPLACE_BATCH_CONCURRENCY", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch_concurrency")
	})
}
