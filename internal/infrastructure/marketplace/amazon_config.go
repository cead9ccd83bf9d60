package marketplace

import (
	"errors"
	"strings"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// AmazonConfig holds configuration for the Amazon Selling Partner API.
type AmazonConfig struct {
	// ClientID is the LWA application client ID
	ClientID string
	// ClientSecret is the LWA application client secret
	ClientSecret string
	// RefreshToken is the seller's LWA refresh token; optional, when empty
	// the client_credentials grant is used instead
	RefreshToken string
	// SellerID is the merchant token of the selling account
	SellerID string
	// MarketplaceID identifies the Amazon marketplace (e.g. ATVPDKIKX0DER)
	MarketplaceID string
	// Region selects the SP-API regional host: na, eu or fe
	Region string
	// APIBaseURL is the SP-API endpoint (production, sandbox or test override)
	APIBaseURL string
	// AuthBaseURL is the LWA token endpoint base URL
	AuthBaseURL string
	// IsSandbox indicates if this is a sandbox environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// AmazonAuthURL is the Login with Amazon token endpoint
	AmazonAuthURL = "https://api.amazon.com"

	amazonRegionNA = "na"
	amazonRegionEU = "eu"
	amazonRegionFE = "fe"
)

// Regional SP-API hosts.
var amazonRegionHosts = map[string]string{
	amazonRegionNA: "https://sellingpartnerapi-na.amazon.com",
	amazonRegionEU: "https://sellingpartnerapi-eu.amazon.com",
	amazonRegionFE: "https://sellingpartnerapi-fe.amazon.com",
}

var amazonSandboxRegionHosts = map[string]string{
	amazonRegionNA: "https://sandbox.sellingpartnerapi-na.amazon.com",
	amazonRegionEU: "https://sandbox.sellingpartnerapi-eu.amazon.com",
	amazonRegionFE: "https://sandbox.sellingpartnerapi-fe.amazon.com",
}

// Errors for Amazon configuration
var (
	ErrAmazonConfigMissingClientID      = errors.New("amazon: client ID is required")
	ErrAmazonConfigMissingClientSecret  = errors.New("amazon: client secret is required")
	ErrAmazonConfigMissingSellerID      = errors.New("amazon: seller ID is required")
	ErrAmazonConfigMissingMarketplaceID = errors.New("amazon: marketplace ID is required")
	ErrAmazonConfigInvalidRegion        = errors.New("amazon: region must be na, eu or fe")
)

// NewAmazonConfig creates a new Amazon configuration with defaults.
func NewAmazonConfig(clientID, clientSecret, refreshToken, sellerID, marketplaceID string) *AmazonConfig {
	return &AmazonConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RefreshToken:   refreshToken,
		SellerID:       sellerID,
		MarketplaceID:  marketplaceID,
		Region:         amazonRegionNA,
		AuthBaseURL:    AmazonAuthURL,
		IsSandbox:      false,
		TimeoutSeconds: 30,
	}
}

// NewSandboxAmazonConfig creates a new Amazon configuration for the sandbox
// environment.
func NewSandboxAmazonConfig(clientID, clientSecret, refreshToken, sellerID, marketplaceID string) *AmazonConfig {
	cfg := NewAmazonConfig(clientID, clientSecret, refreshToken, sellerID, marketplaceID)
	cfg.IsSandbox = true
	return cfg
}

// Validate validates the Amazon configuration and fills defaults.
func (c *AmazonConfig) Validate() error {
	if c.ClientID == "" {
		return ErrAmazonConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrAmazonConfigMissingClientSecret
	}
	if c.SellerID == "" {
		return ErrAmazonConfigMissingSellerID
	}
	if c.MarketplaceID == "" {
		return ErrAmazonConfigMissingMarketplaceID
	}
	if c.Region == "" {
		c.Region = amazonRegionNA
	}
	c.Region = strings.ToLower(c.Region)
	if c.APIBaseURL == "" {
		hosts := amazonRegionHosts
		if c.IsSandbox {
			hosts = amazonSandboxRegionHosts
		}
		host, ok := hosts[c.Region]
		if !ok {
			return ErrAmazonConfigInvalidRegion
		}
		c.APIBaseURL = host
	}
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = AmazonAuthURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// AmazonMarketplaceInfo describes the Amazon connector's capabilities.
func AmazonMarketplaceInfo() connector.MarketplaceInfo {
	return connector.MarketplaceInfo{
		Type:    connector.MarketplaceAmazon,
		Name:    "Amazon Marketplace",
		Regions: []string{"US", "CA", "MX", "BR", "UK", "DE", "FR", "IT", "ES", "JP", "AU"},
		RequiredCredentials: []string{
			connector.CredentialAPIKey,
			connector.CredentialAPISecret,
			connector.CredentialSellerID,
			connector.CredentialMarketplaceID,
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
			RequestsPerHour:   18000,
			Burst:             10,
			MaxBatchSize:      20,
		},
	}
}
