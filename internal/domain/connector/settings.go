package connector

import "time"

// Default values applied to unset settings fields.
const (
	// DefaultSyncIntervalMinutes is the default background sync cadence
	DefaultSyncIntervalMinutes = 60
	// DefaultPriceUpdateThresholdPercent is the minimum relative price change
	// worth pushing to a marketplace
	DefaultPriceUpdateThresholdPercent = 5.0
	// DefaultInventoryUpdateThreshold is the minimum quantity delta worth
	// pushing to a marketplace
	DefaultInventoryUpdateThreshold = 10
	// DefaultErrorRetryAttempts bounds the retry executor per operation
	DefaultErrorRetryAttempts = 3
	// DefaultTimeoutSeconds is the per-request HTTP timeout
	DefaultTimeoutSeconds = 30
)

// Settings carries the per-connection operational tunables. All fields are
// optional; ApplyDefaults fills zero values. Like Credentials, Settings are
// fixed at connector construction.
type Settings struct {
	// AutoSync enables scheduled background synchronization
	AutoSync bool
	// SyncIntervalMinutes is the cadence for AutoSync
	SyncIntervalMinutes int
	// PriceUpdateThresholdPercent suppresses price pushes below this
	// relative change
	PriceUpdateThresholdPercent float64
	// InventoryUpdateThreshold suppresses quantity pushes below this delta
	InventoryUpdateThreshold int
	// ErrorRetryAttempts bounds retries for transient failures
	ErrorRetryAttempts int
	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int
}

// ApplyDefaults fills unset fields with sane defaults and returns the
// settings for chaining.
func (s Settings) ApplyDefaults() Settings {
	if s.SyncIntervalMinutes <= 0 {
		s.SyncIntervalMinutes = DefaultSyncIntervalMinutes
	}
	if s.PriceUpdateThresholdPercent <= 0 {
		s.PriceUpdateThresholdPercent = DefaultPriceUpdateThresholdPercent
	}
	if s.InventoryUpdateThreshold <= 0 {
		s.InventoryUpdateThreshold = DefaultInventoryUpdateThreshold
	}
	if s.ErrorRetryAttempts <= 0 {
		s.ErrorRetryAttempts = DefaultErrorRetryAttempts
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return s
}

// Timeout returns the request timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
