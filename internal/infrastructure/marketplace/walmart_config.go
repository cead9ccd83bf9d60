package marketplace

import (
	"errors"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// WalmartConfig holds configuration for the Walmart Marketplace API.
type WalmartConfig struct {
	// ClientID is the Walmart application client ID
	ClientID string
	// ClientSecret is the Walmart application client secret
	ClientSecret string
	// APIBaseURL is the Marketplace API endpoint (production, sandbox or
	// test override)
	APIBaseURL string
	// ServiceName is sent as WM_SVC.NAME on every request
	ServiceName string
	// IsSandbox indicates if this is a sandbox environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// WalmartProductionAPIURL is the production Marketplace API endpoint
	WalmartProductionAPIURL = "https://marketplace.walmartapis.com"
	// WalmartSandboxAPIURL is the sandbox Marketplace API endpoint
	WalmartSandboxAPIURL = "https://sandbox.walmartapis.com"

	walmartDefaultServiceName = "Walmart Marketplace"
)

// Errors for Walmart configuration
var (
	ErrWalmartConfigMissingClientID     = errors.New("walmart: client ID is required")
	ErrWalmartConfigMissingClientSecret = errors.New("walmart: client secret is required")
)

// NewWalmartConfig creates a new Walmart configuration with defaults.
func NewWalmartConfig(clientID, clientSecret string) *WalmartConfig {
	return &WalmartConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		APIBaseURL:     WalmartProductionAPIURL,
		ServiceName:    walmartDefaultServiceName,
		IsSandbox:      false,
		TimeoutSeconds: 30,
	}
}

// NewSandboxWalmartConfig creates a new Walmart configuration for the
// sandbox environment.
func NewSandboxWalmartConfig(clientID, clientSecret string) *WalmartConfig {
	return &WalmartConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		APIBaseURL:     WalmartSandboxAPIURL,
		ServiceName:    walmartDefaultServiceName,
		IsSandbox:      true,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Walmart configuration and fills defaults.
func (c *WalmartConfig) Validate() error {
	if c.ClientID == "" {
		return ErrWalmartConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrWalmartConfigMissingClientSecret
	}
	if c.APIBaseURL == "" {
		if c.IsSandbox {
			c.APIBaseURL = WalmartSandboxAPIURL
		} else {
			c.APIBaseURL = WalmartProductionAPIURL
		}
	}
	if c.ServiceName == "" {
		c.ServiceName = walmartDefaultServiceName
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// WalmartMarketplaceInfo describes the Walmart connector's capabilities.
func WalmartMarketplaceInfo() connector.MarketplaceInfo {
	return connector.MarketplaceInfo{
		Type:    connector.MarketplaceWalmart,
		Name:    "Walmart Marketplace",
		Regions: []string{"US"},
		RequiredCredentials: []string{
			connector.CredentialAPIKey,
			connector.CredentialAPISecret,
		},
		SupportedFeatures: []string{
			connector.FeatureListings,
			connector.FeatureOrders,
			connector.FeatureInventory,
			connector.FeaturePricing,
			connector.FeatureOrderAcknowledge,
			connector.FeatureShipmentNotify,
			connector.FeatureOrderCancel,
		},
		RateLimits: connector.RateLimits{
			RequestsPerSecond: 10,
			RequestsPerHour:   36000,
			Burst:             20,
			MaxBatchSize:      50,
		},
	}
}
