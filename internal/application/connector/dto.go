package connector

import (
	"time"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// ConnectionRequest identifies a marketplace connection: which marketplace
// to talk to, with which credentials and tunables.
type ConnectionRequest struct {
	Marketplace connector.MarketplaceType
	Credentials connector.Credentials
	Settings    connector.Settings
}

// TestConnectionResponse reports the outcome of a connection test.
// Authentication (the credentials produce a token) and authorization (the
// token actually grants resource access) are reported separately.
type TestConnectionResponse struct {
	Marketplace      connector.MarketplaceType
	CredentialsValid bool
	ValidationErrors []string
	Authenticated    bool
	Authorized       bool
	Message          string
}

// SyncInventoryRequest carries a batch of quantity changes.
type SyncInventoryRequest struct {
	ConnectionRequest
	Updates []connector.InventoryUpdate
}

// SyncPricingRequest carries a batch of price changes.
type SyncPricingRequest struct {
	ConnectionRequest
	Updates []connector.PriceUpdate
}

// PullOrdersRequest asks for orders inside a window. Nil bounds default to
// the trailing seven days.
type PullOrdersRequest struct {
	ConnectionRequest
	StartDate *time.Time
	EndDate   *time.Time
}
