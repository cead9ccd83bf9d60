package marketplace

import (
	"errors"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// EbayConfig holds configuration for the eBay Sell APIs.
type EbayConfig struct {
	// ClientID is the eBay application client ID (App ID)
	ClientID string
	// ClientSecret is the eBay application client secret (Cert ID)
	ClientSecret string
	// RefreshToken is the seller's OAuth refresh token
	RefreshToken string
	// MarketplaceID is the eBay marketplace identifier (e.g. EBAY_US)
	MarketplaceID string
	// APIBaseURL is the Sell API endpoint (production, sandbox or test
	// override)
	APIBaseURL string
	// AuthBaseURL is the OAuth token endpoint base URL
	AuthBaseURL string
	// IsSandbox indicates if this is a sandbox environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// EbayProductionAPIURL is the production Sell API endpoint
	EbayProductionAPIURL = "https://api.ebay.com"
	// EbaySandboxAPIURL is the sandbox Sell API endpoint
	EbaySandboxAPIURL = "https://api.sandbox.ebay.com"

	ebayDefaultMarketplaceID = "EBAY_US"
)

// Errors for eBay configuration
var (
	ErrEbayConfigMissingClientID     = errors.New("ebay: client ID is required")
	ErrEbayConfigMissingClientSecret = errors.New("ebay: client secret is required")
	ErrEbayConfigMissingRefreshToken = errors.New("ebay: refresh token is required")
)

// NewEbayConfig creates a new eBay configuration with defaults.
func NewEbayConfig(clientID, clientSecret, refreshToken string) *EbayConfig {
	return &EbayConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RefreshToken:   refreshToken,
		MarketplaceID:  ebayDefaultMarketplaceID,
		APIBaseURL:     EbayProductionAPIURL,
		AuthBaseURL:    EbayProductionAPIURL,
		IsSandbox:      false,
		TimeoutSeconds: 30,
	}
}

// NewSandboxEbayConfig creates a new eBay configuration for the sandbox
// environment.
func NewSandboxEbayConfig(clientID, clientSecret, refreshToken string) *EbayConfig {
	return &EbayConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RefreshToken:   refreshToken,
		MarketplaceID:  ebayDefaultMarketplaceID,
		APIBaseURL:     EbaySandboxAPIURL,
		AuthBaseURL:    EbaySandboxAPIURL,
		IsSandbox:      true,
		TimeoutSeconds: 30,
	}
}

// Validate validates the eBay configuration and fills defaults.
func (c *EbayConfig) Validate() error {
	if c.ClientID == "" {
		return ErrEbayConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrEbayConfigMissingClientSecret
	}
	if c.RefreshToken == "" {
		return ErrEbayConfigMissingRefreshToken
	}
	if c.MarketplaceID == "" {
		c.MarketplaceID = ebayDefaultMarketplaceID
	}
	if c.APIBaseURL == "" {
		if c.IsSandbox {
			c.APIBaseURL = EbaySandboxAPIURL
		} else {
			c.APIBaseURL = EbayProductionAPIURL
		}
	}
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = c.APIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// EbayMarketplaceInfo describes the eBay connector's capabilities.
func EbayMarketplaceInfo() connector.MarketplaceInfo {
	return connector.MarketplaceInfo{
		Type:    connector.MarketplaceEbay,
		Name:    "eBay",
		Regions: []string{"US", "UK", "DE", "AU", "CA", "FR", "IT", "ES"},
		RequiredCredentials: []string{
			connector.CredentialAPIKey,
			connector.CredentialAPISecret,
			connector.CredentialRefreshToken,
		},
		SupportedFeatures: []string{
			connector.FeatureListings,
			connector.FeatureOrders,
			connector.FeatureInventory,
			connector.FeaturePricing,
			connector.FeatureShipmentNotify,
		},
		RateLimits: connector.RateLimits{
			RequestsPerSecond: 5,
			RequestsPerHour:   5000,
			Burst:             10,
			MaxBatchSize:      25,
		},
	}
}
