package marketplace

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// seededTokenTTL is how long a caller-supplied access token is trusted
// before the connector refreshes on its own.
const seededTokenTTL = 10 * time.Minute

// FactoryOptions tunes how the factory builds connectors.
type FactoryOptions struct {
	// Sandbox points every connector at the marketplace's sandbox hosts
	Sandbox bool
	// Defaults fills settings fields the request leaves unset. Fields
	// still zero afterwards fall back to the package constants in
	// Settings.ApplyDefaults.
	Defaults connector.Settings
	// RetryDelay is the base backoff delay between request attempts;
	// zero defers to the retry package default
	RetryDelay time.Duration
	// BatchConcurrency caps concurrent per-item calls inside a batch;
	// zero defers to the marketplace's declared requests-per-second
	BatchConcurrency int
	// Transport overrides the HTTP transport; tests use this to route
	// traffic at mock servers
	Transport http.RoundTripper
}

// ConnectorFactory builds marketplace connectors from credentials. It
// validates credentials against each marketplace's declared requirements
// before any construction, so bad input fails fast without network
// traffic.
type ConnectorFactory struct {
	logger *zap.Logger
	opts   FactoryOptions
}

var _ connector.Factory = (*ConnectorFactory)(nil)

// NewConnectorFactory creates a factory. The logger is injected rather
// than global so callers control log routing.
func NewConnectorFactory(logger *zap.Logger, opts FactoryOptions) *ConnectorFactory {
	return &ConnectorFactory{
		logger: logger.Named("factory"),
		opts:   opts,
	}
}

// marketplaceInfos indexes capability metadata by marketplace type.
var marketplaceInfos = map[connector.MarketplaceType]func() connector.MarketplaceInfo{
	connector.MarketplaceAmazon:  AmazonMarketplaceInfo,
	connector.MarketplaceEbay:    EbayMarketplaceInfo,
	connector.MarketplaceWalmart: WalmartMarketplaceInfo,
}

// SupportedMarketplaces lists the marketplace types this factory can build.
func (f *ConnectorFactory) SupportedMarketplaces() []connector.MarketplaceType {
	return []connector.MarketplaceType{
		connector.MarketplaceAmazon,
		connector.MarketplaceEbay,
		connector.MarketplaceWalmart,
	}
}

// MarketplaceInfo returns the static capability metadata for a marketplace.
func (f *ConnectorFactory) MarketplaceInfo(marketplaceType connector.MarketplaceType) (connector.MarketplaceInfo, error) {
	info, ok := marketplaceInfos[marketplaceType]
	if !ok {
		return connector.MarketplaceInfo{}, fmt.Errorf("%w: %s", connector.ErrMarketplaceUnsupported, marketplaceType)
	}
	return info(), nil
}

// ValidateCredentials checks the credentials against the marketplace's
// declared required fields without touching the network.
func (f *ConnectorFactory) ValidateCredentials(marketplaceType connector.MarketplaceType, creds connector.Credentials) connector.ValidationResult {
	info, err := f.MarketplaceInfo(marketplaceType)
	if err != nil {
		return connector.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Unsupported marketplace: %s", marketplaceType)},
		}
	}
	return creds.ValidateRequired(info.RequiredCredentials)
}

// CreateConnector validates the credentials and builds the connector for
// the marketplace. Invalid credentials surface as ErrValidation; unknown
// marketplace types as ErrMarketplaceUnsupported.
func (f *ConnectorFactory) CreateConnector(marketplaceType connector.MarketplaceType, creds connector.Credentials, settings connector.Settings) (connector.Connector, error) {
	if _, ok := marketplaceInfos[marketplaceType]; !ok {
		return nil, fmt.Errorf("%w: %s", connector.ErrMarketplaceUnsupported, marketplaceType)
	}

	if result := f.ValidateCredentials(marketplaceType, creds); !result.Valid {
		return nil, fmt.Errorf("%w: %s", connector.ErrValidation, strings.Join(result.Errors, "; "))
	}

	settings = f.withDefaults(settings)

	switch marketplaceType {
	case connector.MarketplaceAmazon:
		return f.buildAmazon(creds, settings)
	case connector.MarketplaceEbay:
		return f.buildEbay(creds, settings)
	case connector.MarketplaceWalmart:
		return f.buildWalmart(creds, settings)
	default:
		return nil, fmt.Errorf("%w: %s", connector.ErrMarketplaceUnsupported, marketplaceType)
	}
}

// withDefaults fills settings fields the request left unset from the
// factory's configured defaults. AutoSync stays request-controlled: false
// is a meaningful value there, not absence.
func (f *ConnectorFactory) withDefaults(s connector.Settings) connector.Settings {
	d := f.opts.Defaults
	if s.SyncIntervalMinutes <= 0 {
		s.SyncIntervalMinutes = d.SyncIntervalMinutes
	}
	if s.PriceUpdateThresholdPercent <= 0 {
		s.PriceUpdateThresholdPercent = d.PriceUpdateThresholdPercent
	}
	if s.InventoryUpdateThreshold <= 0 {
		s.InventoryUpdateThreshold = d.InventoryUpdateThreshold
	}
	if s.ErrorRetryAttempts <= 0 {
		s.ErrorRetryAttempts = d.ErrorRetryAttempts
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = d.TimeoutSeconds
	}
	return s
}

func (f *ConnectorFactory) tuning() tuning {
	return tuning{
		retryDelay: f.opts.RetryDelay,
		batchLimit: f.opts.BatchConcurrency,
	}
}

func (f *ConnectorFactory) buildAmazon(creds connector.Credentials, settings connector.Settings) (connector.Connector, error) {
	cfg := NewAmazonConfig(creds.APIKey, creds.APISecret, creds.RefreshToken, creds.SellerID, creds.MarketplaceID)
	cfg.IsSandbox = f.opts.Sandbox
	if f.opts.Sandbox {
		// Region hosts are resolved in Validate; clear the production
		// default so the sandbox host is picked.
		cfg.APIBaseURL = ""
	}
	if creds.Region != "" {
		cfg.Region = creds.Region
	}
	cfg.TimeoutSeconds = settings.ApplyDefaults().TimeoutSeconds

	c, err := NewAmazonConnector(cfg, settings, f.logger, f.opts.Transport)
	if err != nil {
		return nil, err
	}
	c.tuning = f.tuning()
	c.tokens.Seed(creds.AccessToken, time.Now().Add(seededTokenTTL))
	return c, nil
}

func (f *ConnectorFactory) buildEbay(creds connector.Credentials, settings connector.Settings) (connector.Connector, error) {
	var cfg *EbayConfig
	if f.opts.Sandbox {
		cfg = NewSandboxEbayConfig(creds.APIKey, creds.APISecret, creds.RefreshToken)
	} else {
		cfg = NewEbayConfig(creds.APIKey, creds.APISecret, creds.RefreshToken)
	}
	if creds.MarketplaceID != "" {
		cfg.MarketplaceID = creds.MarketplaceID
	}
	cfg.TimeoutSeconds = settings.ApplyDefaults().TimeoutSeconds

	c, err := NewEbayConnector(cfg, settings, f.logger, f.opts.Transport)
	if err != nil {
		return nil, err
	}
	c.tuning = f.tuning()
	c.tokens.Seed(creds.AccessToken, time.Now().Add(seededTokenTTL))
	return c, nil
}

func (f *ConnectorFactory) buildWalmart(creds connector.Credentials, settings connector.Settings) (connector.Connector, error) {
	var cfg *WalmartConfig
	if f.opts.Sandbox {
		cfg = NewSandboxWalmartConfig(creds.APIKey, creds.APISecret)
	} else {
		cfg = NewWalmartConfig(creds.APIKey, creds.APISecret)
	}
	cfg.TimeoutSeconds = settings.ApplyDefaults().TimeoutSeconds

	c, err := NewWalmartConnector(cfg, settings, f.logger, f.opts.Transport)
	if err != nil {
		return nil, err
	}
	c.tuning = f.tuning()
	c.tokens.Seed(creds.AccessToken, time.Now().Add(seededTokenTTL))
	return c, nil
}
