package connector

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// MarketplaceType
// ---------------------------------------------------------------------------

// MarketplaceType identifies a supported marketplace.
type MarketplaceType string

const (
	// MarketplaceAmazon is the Amazon Selling Partner API
	MarketplaceAmazon MarketplaceType = "amazon"
	// MarketplaceEbay is the eBay Sell API family
	MarketplaceEbay MarketplaceType = "ebay"
	// MarketplaceWalmart is the Walmart Marketplace API
	MarketplaceWalmart MarketplaceType = "walmart"
)

// IsValid returns true if the marketplace type is supported.
func (t MarketplaceType) IsValid() bool {
	switch t {
	case MarketplaceAmazon, MarketplaceEbay, MarketplaceWalmart:
		return true
	default:
		return false
	}
}

// String returns the string representation of MarketplaceType.
func (t MarketplaceType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Capability Metadata
// ---------------------------------------------------------------------------

// RateLimits describes a marketplace's declared request budgets. Callers
// use these to pre-flight batch sizes before issuing requests.
type RateLimits struct {
	// RequestsPerSecond bounds concurrent per-item dispatch in batches
	RequestsPerSecond int
	// RequestsPerHour is the marketplace's hourly budget
	RequestsPerHour int
	// Burst is the short-term burst allowance
	Burst int
	// MaxBatchSize is the largest batch a single sync call accepts
	MaxBatchSize int
}

// MarketplaceInfo is the static capability description of one marketplace.
type MarketplaceInfo struct {
	// Type is the marketplace identifier
	Type MarketplaceType
	// Name is the human-readable marketplace name
	Name string
	// Regions lists the supported regional hosts
	Regions []string
	// RequiredCredentials names the credential fields that must be present
	RequiredCredentials []string
	// SupportedFeatures lists the operations this marketplace supports
	SupportedFeatures []string
	// RateLimits is the declared request budget
	RateLimits RateLimits
}

// SupportsFeature returns true if the marketplace declares the feature.
func (i MarketplaceInfo) SupportsFeature(feature string) bool {
	for _, f := range i.SupportedFeatures {
		if f == feature {
			return true
		}
	}
	return false
}

// Feature names used in MarketplaceInfo.SupportedFeatures.
const (
	FeatureListings         = "listings"
	FeatureOrders           = "orders"
	FeatureInventory        = "inventory"
	FeaturePricing          = "pricing"
	FeatureOrderAcknowledge = "order-acknowledgement"
	FeatureShipmentNotify   = "shipment-notification"
	FeatureOrderCancel      = "order-cancellation"
)

// ---------------------------------------------------------------------------
// Connector Port
// ---------------------------------------------------------------------------

// Connector is the capability set every marketplace implementation
// satisfies. Read operations (GetListings, GetOrders) propagate unrecovered
// errors after retries exhaust; mutating operations never propagate raw
// transport errors and always return a non-nil SyncResult so batch callers
// can keep processing siblings.
type Connector interface {
	// Info returns the static capability description of this marketplace
	Info() MarketplaceInfo

	// Authenticate validates the credentials and establishes a usable
	// token. Expected failures are logged and reported as false, never as
	// a panic or error.
	Authenticate(ctx context.Context) bool

	// GetListings fetches every listing, collapsing marketplace-native
	// pagination into one result
	GetListings(ctx context.Context) ([]ProductListing, error)

	// CreateListing publishes a new listing
	CreateListing(ctx context.Context, listing ProductListing) *SyncResult

	// UpdateListing applies a partial update to an existing listing
	UpdateListing(ctx context.Context, update ListingUpdate) *SyncResult

	// DeleteListing removes or retires a listing by its marketplace
	// identifier
	DeleteListing(ctx context.Context, externalID string) *SyncResult

	// GetOrders fetches orders created inside the optional window
	GetOrders(ctx context.Context, startDate, endDate *time.Time) ([]MarketplaceOrder, error)

	// UpdateOrderStatus pushes a canonical status change to the marketplace
	UpdateOrderStatus(ctx context.Context, externalID string, status OrderStatus) *SyncResult

	// UpdateInventory applies quantity changes as a batch; per-item
	// outcomes are reported in SyncResult.Data
	UpdateInventory(ctx context.Context, updates []InventoryUpdate) *SyncResult

	// UpdatePricing applies price changes as a batch; per-item outcomes are
	// reported in SyncResult.Data
	UpdatePricing(ctx context.Context, updates []PriceUpdate) *SyncResult
}

// AuthorizationProbe is implemented by connectors that can cheaply verify
// resource access beyond a successful token exchange. A token exchange
// proves authentication; the probe proves authorization. Connection tests
// report the two separately.
type AuthorizationProbe interface {
	// CheckAuthorization performs a cheap read against a resource endpoint
	// and returns ErrNotAuthorized (wrapped) when access is denied
	CheckAuthorization(ctx context.Context) error
}

// ---------------------------------------------------------------------------
// Factory Port
// ---------------------------------------------------------------------------

// Factory validates credentials and instantiates connectors. Validation
// runs before any connector is constructed so invalid configurations fail
// fast without touching the network.
type Factory interface {
	// CreateConnector validates credentials against the marketplace's
	// declared requirements and builds the connector
	CreateConnector(marketplaceType MarketplaceType, creds Credentials, settings Settings) (Connector, error)

	// ValidateCredentials checks the declared required-field list without
	// any network traffic
	ValidateCredentials(marketplaceType MarketplaceType, creds Credentials) ValidationResult

	// SupportedMarketplaces lists the marketplace types this factory can build
	SupportedMarketplaces() []MarketplaceType

	// MarketplaceInfo returns static capability metadata for a marketplace
	MarketplaceInfo(marketplaceType MarketplaceType) (MarketplaceInfo, error)
}
