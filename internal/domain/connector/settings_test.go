package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettings_ApplyDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		s := Settings{}.ApplyDefaults()
		assert.False(t, s.AutoSync)
		assert.Equal(t, DefaultSyncIntervalMinutes, s.SyncIntervalMinutes)
		assert.Equal(t, DefaultPriceUpdateThresholdPercent, s.PriceUpdateThresholdPercent)
		assert.Equal(t, DefaultInventoryUpdateThreshold, s.InventoryUpdateThreshold)
		assert.Equal(t, DefaultErrorRetryAttempts, s.ErrorRetryAttempts)
		assert.Equal(t, DefaultTimeoutSeconds, s.TimeoutSeconds)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		s := Settings{
			AutoSync:                    true,
			SyncIntervalMinutes:         15,
			PriceUpdateThresholdPercent: 2.5,
			InventoryUpdateThreshold:    1,
			ErrorRetryAttempts:          5,
			TimeoutSeconds:              10,
		}.ApplyDefaults()
		assert.True(t, s.AutoSync)
		assert.Equal(t, 15, s.SyncIntervalMinutes)
		assert.Equal(t, 2.5, s.PriceUpdateThresholdPercent)
		assert.Equal(t, 1, s.InventoryUpdateThreshold)
		assert.Equal(t, 5, s.ErrorRetryAttempts)
		assert.Equal(t, 10, s.TimeoutSeconds)
	})
}

func TestSettings_Timeout(t *testing.T) {
	s := Settings{TimeoutSeconds: 12}
	assert.Equal(t, 12*time.Second, s.Timeout())
}
