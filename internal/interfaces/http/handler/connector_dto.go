package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// CredentialsPayload carries marketplace secrets in a request body. Fields
// not required by the target marketplace may be omitted.
type CredentialsPayload struct {
	APIKey        string `json:"api_key"`
	APISecret     string `json:"api_secret"`
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	SellerID      string `json:"seller_id"`
	MarketplaceID string `json:"marketplace_id"`
	Region        string `json:"region"`
}

func (p CredentialsPayload) toDomain() connector.Credentials {
	return connector.Credentials{
		APIKey:        p.APIKey,
		APISecret:     p.APISecret,
		AccessToken:   p.AccessToken,
		RefreshToken:  p.RefreshToken,
		SellerID:      p.SellerID,
		MarketplaceID: p.MarketplaceID,
		Region:        p.Region,
	}
}

// SettingsPayload carries optional per-connection tuning
type SettingsPayload struct {
	AutoSync                    bool    `json:"auto_sync"`
	SyncIntervalMinutes         int     `json:"sync_interval_minutes" binding:"omitempty,min=1"`
	PriceUpdateThresholdPercent float64 `json:"price_update_threshold_percent" binding:"omitempty,min=0"`
	InventoryUpdateThreshold    int     `json:"inventory_update_threshold" binding:"omitempty,min=0"`
	ErrorRetryAttempts          int     `json:"error_retry_attempts" binding:"omitempty,min=1,max=10"`
	TimeoutSeconds              int     `json:"timeout_seconds" binding:"omitempty,min=1,max=300"`
}

func (p SettingsPayload) toDomain() connector.Settings {
	return connector.Settings{
		AutoSync:                    p.AutoSync,
		SyncIntervalMinutes:         p.SyncIntervalMinutes,
		PriceUpdateThresholdPercent: p.PriceUpdateThresholdPercent,
		InventoryUpdateThreshold:    p.InventoryUpdateThreshold,
		ErrorRetryAttempts:          p.ErrorRetryAttempts,
		TimeoutSeconds:              p.TimeoutSeconds,
	}
}

// ConnectionPayload is the common request body for operations that build a
// connector from caller-supplied credentials.
type ConnectionPayload struct {
	Marketplace string             `json:"marketplace" binding:"required,marketplace"`
	Credentials CredentialsPayload `json:"credentials" binding:"required"`
	Settings    SettingsPayload    `json:"settings"`
}

// InventoryUpdatePayload is one quantity change in a sync batch
type InventoryUpdatePayload struct {
	SKU        string `json:"sku" binding:"required"`
	ExternalID string `json:"external_id"`
	Quantity   int    `json:"quantity" binding:"min=0"`
}

// PriceUpdatePayload is one price change in a sync batch
type PriceUpdatePayload struct {
	SKU        string          `json:"sku" binding:"required"`
	ExternalID string          `json:"external_id"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Currency   string          `json:"currency" binding:"omitempty,len=3"`
}

// SyncInventoryPayload is the request body for an inventory sync
type SyncInventoryPayload struct {
	ConnectionPayload
	Updates []InventoryUpdatePayload `json:"updates" binding:"required,min=1,dive"`
}

// SyncPricingPayload is the request body for a pricing sync
type SyncPricingPayload struct {
	ConnectionPayload
	Updates []PriceUpdatePayload `json:"updates" binding:"required,min=1,dive"`
}

// PullOrdersPayload is the request body for an order pull. Absent dates
// default to the trailing week.
type PullOrdersPayload struct {
	ConnectionPayload
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// MarketplaceInfoResponse describes one marketplace's capabilities
type MarketplaceInfoResponse struct {
	Type                string             `json:"type"`
	Name                string             `json:"name"`
	Regions             []string           `json:"regions,omitempty"`
	RequiredCredentials []string           `json:"required_credentials"`
	SupportedFeatures   []string           `json:"supported_features"`
	RateLimits          RateLimitsResponse `json:"rate_limits"`
}

// RateLimitsResponse describes a marketplace's declared request budget
type RateLimitsResponse struct {
	RequestsPerSecond int `json:"requests_per_second"`
	RequestsPerHour   int `json:"requests_per_hour"`
	Burst             int `json:"burst"`
	MaxBatchSize      int `json:"max_batch_size"`
}

func toMarketplaceInfoResponse(info connector.MarketplaceInfo) MarketplaceInfoResponse {
	return MarketplaceInfoResponse{
		Type:                info.Type.String(),
		Name:                info.Name,
		Regions:             info.Regions,
		RequiredCredentials: info.RequiredCredentials,
		SupportedFeatures:   info.SupportedFeatures,
		RateLimits: RateLimitsResponse{
			RequestsPerSecond: info.RateLimits.RequestsPerSecond,
			RequestsPerHour:   info.RateLimits.RequestsPerHour,
			Burst:             info.RateLimits.Burst,
			MaxBatchSize:      info.RateLimits.MaxBatchSize,
		},
	}
}

// ValidationResponse reports credential validation results
type ValidationResponse struct {
	Marketplace string   `json:"marketplace"`
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors,omitempty"`
}

// SyncResultResponse reports the outcome of a batch sync
type SyncResultResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Data    any      `json:"data,omitempty"`
}

func toSyncResultResponse(r *connector.SyncResult) SyncResultResponse {
	return SyncResultResponse{
		Success: r.Success,
		Message: r.Message,
		Errors:  r.Errors,
		Data:    r.Data,
	}
}

// AddressResponse is a canonical postal address
type AddressResponse struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItemResponse is one line of a marketplace order
type OrderItemResponse struct {
	SKU        string `json:"sku"`
	Title      string `json:"title,omitempty"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
	ExternalID string `json:"external_id,omitempty"`
}

// OrderResponse is a marketplace order mapped to the canonical model
type OrderResponse struct {
	ID              string              `json:"id,omitempty"`
	ExternalID      string              `json:"external_id"`
	Status          string              `json:"status"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	CustomerName    string              `json:"customer_name,omitempty"`
	TotalAmount     string              `json:"total_amount"`
	Currency        string              `json:"currency"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress *AddressResponse    `json:"shipping_address,omitempty"`
	BillingAddress  *AddressResponse    `json:"billing_address,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toAddressResponse(a *connector.Address) *AddressResponse {
	if a == nil {
		return nil
	}
	return &AddressResponse{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func toOrderResponse(o connector.MarketplaceOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			SKU:        item.SKU,
			Title:      item.Title,
			Quantity:   item.Quantity,
			Price:      item.Price.String(),
			ExternalID: item.ExternalID,
		})
	}

	return OrderResponse{
		ID:              o.ID,
		ExternalID:      o.ExternalID,
		Status:          string(o.Status),
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		TotalAmount:     o.TotalAmount.String(),
		Currency:        o.Currency,
		Items:           items,
		ShippingAddress: toAddressResponse(o.ShippingAddress),
		BillingAddress:  toAddressResponse(o.BillingAddress),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// TestConnectionResult reports the layered outcome of a connection test
type TestConnectionResult struct {
	Marketplace      string   `json:"marketplace"`
	CredentialsValid bool     `json:"credentials_valid"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	Authenticated    bool     `json:"authenticated"`
	Authorized       bool     `json:"authorized"`
	Message          string   `json:"message,omitempty"`
}
