package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
	"github.com/channelgrid/backend/internal/infrastructure/retry"
)

const (
	amazonListingsAPIVersion = "2021-08-01"
	amazonDefaultProductType = "PRODUCT"
	amazonOrdersPageLimit    = 50
)

// AmazonConnector implements the Connector interface for the Amazon Selling
// Partner API.
type AmazonConnector struct {
	config     *AmazonConfig
	settings   connector.Settings
	tuning     tuning
	httpClient *http.Client
	tokens     *tokenManager
	logger     *zap.Logger
}

var _ connector.Connector = (*AmazonConnector)(nil)
var _ connector.AuthorizationProbe = (*AmazonConnector)(nil)

// NewAmazonConnector creates a new Amazon connector with the given
// configuration. A non-nil transport overrides the HTTP transport, which
// tests use to point requests at mock servers.
func NewAmazonConnector(config *AmazonConfig, settings connector.Settings, logger *zap.Logger, transport http.RoundTripper) (*AmazonConnector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	settings = settings.ApplyDefaults()

	c := &AmazonConnector{
		config:     config,
		settings:   settings,
		httpClient: newHTTPClient(time.Duration(config.TimeoutSeconds)*time.Second, transport),
		logger:     logger.Named("amazon"),
	}
	c.tokens = newTokenManager(c.exchangeToken, c.logger)
	return c, nil
}

// Info returns the Amazon connector's capability metadata.
func (c *AmazonConnector) Info() connector.MarketplaceInfo {
	return AmazonMarketplaceInfo()
}

func (c *AmazonConnector) retryOptions() retry.Options {
	return retry.Options{
		MaxAttempts:  c.settings.ErrorRetryAttempts,
		InitialDelay: c.tuning.retryDelay,
		Logger:       c.logger,
	}
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// exchangeToken performs the Login with Amazon token exchange. With a
// refresh token present the refresh_token grant is used, otherwise the
// application authenticates on its own behalf via client_credentials.
func (c *AmazonConnector) exchangeToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	if c.config.RefreshToken != "" {
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", c.config.RefreshToken)
	} else {
		form.Set("grant_type", "client_credentials")
		form.Set("scope", "sellingpartnerapi::migration")
	}
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthBaseURL+"/auth/o2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", time.Time{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var token amazonTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	return token.AccessToken, time.Now().Add(time.Duration(token.ExpiresIn) * time.Second), nil
}

// Authenticate verifies the credentials can obtain an access token.
func (c *AmazonConnector) Authenticate(ctx context.Context) bool {
	_, err := c.tokens.ValidToken(ctx)
	if err != nil {
		c.logger.Warn("Authentication failed", zap.Error(err))
		return false
	}
	return true
}

// CheckAuthorization verifies the token actually grants access to the
// configured marketplace, distinguishing bad credentials from missing
// permissions.
func (c *AmazonConnector) CheckAuthorization(ctx context.Context) error {
	var resp amazonParticipationsResponse
	err := doJSON(ctx, c.httpClient, c.tokens, request{
		method: http.MethodGet,
		url:    c.config.APIBaseURL + "/sellers/v1/marketplaceParticipations",
	}, &resp)
	if err != nil {
		return err
	}

	for _, p := range resp.Payload {
		if p.Marketplace.ID == c.config.MarketplaceID && p.Participation.IsParticipating {
			return nil
		}
	}
	return fmt.Errorf("%w: seller does not participate in marketplace %s", connector.ErrNotAuthorized, c.config.MarketplaceID)
}

// ---------------------------------------------------------------------------
// Listing Operations
// ---------------------------------------------------------------------------

// GetListings retrieves all listings for the seller, following page tokens
// until the catalog is exhausted.
func (c *AmazonConnector) GetListings(ctx context.Context) ([]connector.ProductListing, error) {
	return retry.Do(ctx, "amazon.get_listings", c.retryOptions(), func(ctx context.Context) ([]connector.ProductListing, error) {
		listings := make([]connector.ProductListing, 0)
		pageToken := ""
		for {
			query := map[string]string{
				"marketplaceIds": c.config.MarketplaceID,
				"includedData":   "summaries,offers,fulfillmentAvailability",
				"pageSize":       "20",
			}
			if pageToken != "" {
				query["pageToken"] = pageToken
			}

			var resp amazonListingsSearchResponse
			err := doJSON(ctx, c.httpClient, c.tokens, request{
				method: http.MethodGet,
				url:    fmt.Sprintf("%s/listings/%s/items/%s", c.config.APIBaseURL, amazonListingsAPIVersion, c.config.SellerID),
				query:  query,
			}, &resp)
			if err != nil {
				return nil, err
			}

			for _, item := range resp.Items {
				listings = append(listings, c.mapListing(item))
			}

			if resp.Pagination == nil || resp.Pagination.NextToken == "" {
				break
			}
			pageToken = resp.Pagination.NextToken
		}
		return listings, nil
	})
}

// mapListing converts an Amazon listings item into the canonical model.
func (c *AmazonConnector) mapListing(item amazonListingItem) connector.ProductListing {
	listing := connector.ProductListing{
		SKU:        item.SKU,
		ExternalID: item.SKU,
		Status:     connector.ListingStatusInactive,
		Currency:   "USD",
		// Description, Category and Attributes stay empty: the listings
		// item summaries do not carry them and this connector does not
		// call the Catalog Items API.
	}

	for _, s := range item.Summaries {
		if s.MarketplaceID != c.config.MarketplaceID {
			continue
		}
		listing.Title = s.ItemName
		listing.Status = mapAmazonListingStatus(s.Status)
		if s.MainImage != nil && s.MainImage.Link != "" {
			listing.Images = []string{s.MainImage.Link}
		}
	}
	for _, o := range item.Offers {
		if o.MarketplaceID != c.config.MarketplaceID {
			continue
		}
		if price, err := decimal.NewFromString(o.Price.Amount); err == nil {
			listing.Price = price
			listing.Currency = o.Price.CurrencyCode
		}
	}
	for _, f := range item.Fulfillment {
		listing.Quantity += f.Quantity
	}
	return listing
}

// mapAmazonListingStatus maps the listing status markers onto the canonical
// listing status.
func mapAmazonListingStatus(statuses []string) connector.ListingStatus {
	for _, s := range statuses {
		if s == "BUYABLE" || s == "DISCOVERABLE" {
			return connector.ListingStatusActive
		}
	}
	return connector.ListingStatusInactive
}

// CreateListing publishes a new listing via a Listings Items PUT.
func (c *AmazonConnector) CreateListing(ctx context.Context, listing connector.ProductListing) *connector.SyncResult {
	if err := listing.Validate(); err != nil {
		return connector.NewSyncFailure("listing validation failed", err.Error())
	}

	submission := amazonListingSubmission{
		ProductType: amazonDefaultProductType,
		Attributes: map[string]any{
			"item_name": []any{map[string]any{"value": listing.Title, "marketplace_id": c.config.MarketplaceID}},
			"purchasable_offer": []any{map[string]any{
				"marketplace_id": c.config.MarketplaceID,
				"currency":       listing.Currency,
				"our_price":      []any{map[string]any{"schedule": []any{map[string]any{"value_with_tax": listing.Price.InexactFloat64()}}}},
			}},
			"fulfillment_availability": []any{map[string]any{
				"fulfillment_channel_code": "DEFAULT",
				"quantity":                 listing.Quantity,
			}},
		},
	}
	if listing.Description != "" {
		submission.Attributes["product_description"] = []any{map[string]any{"value": listing.Description, "marketplace_id": c.config.MarketplaceID}}
	}
	if listing.Brand != "" {
		submission.Attributes["brand"] = []any{map[string]any{"value": listing.Brand, "marketplace_id": c.config.MarketplaceID}}
	}

	resp, err := retry.Do(ctx, "amazon.create_listing", c.retryOptions(), func(ctx context.Context) (*amazonSubmissionResponse, error) {
		var out amazonSubmissionResponse
		err := doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPut,
			url:    c.listingURL(listing.SKU),
			query:  map[string]string{"marketplaceIds": c.config.MarketplaceID},
			body:   submission,
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return connector.NewSyncFailure("failed to create listing", err.Error())
	}
	if submissionRejected(resp) {
		return connector.NewSyncFailure(fmt.Sprintf("listing submission rejected: %s", issueSummary(resp.Issues)))
	}

	return connector.NewSyncSuccess("listing submitted", map[string]string{
		"externalId":   listing.SKU,
		"submissionId": resp.SubmissionID,
	})
}

// UpdateListing applies a partial update via a Listings Items PATCH. Only
// the fields present in the update are patched.
func (c *AmazonConnector) UpdateListing(ctx context.Context, update connector.ListingUpdate) *connector.SyncResult {
	if update.ExternalID == "" && update.SKU == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}

	patches := make([]amazonPatch, 0, 3)
	if update.Title != nil {
		patches = append(patches, amazonPatch{
			Op:    "replace",
			Path:  "/attributes/item_name",
			Value: []any{map[string]any{"value": *update.Title, "marketplace_id": c.config.MarketplaceID}},
		})
	}
	if update.Price != nil {
		currency := update.Currency
		if currency == "" {
			currency = "USD"
		}
		patches = append(patches, amazonPatch{
			Op:   "replace",
			Path: "/attributes/purchasable_offer",
			Value: []any{map[string]any{
				"marketplace_id": c.config.MarketplaceID,
				"currency":       currency,
				"our_price":      []any{map[string]any{"schedule": []any{map[string]any{"value_with_tax": update.Price.InexactFloat64()}}}},
			}},
		})
	}
	if update.Quantity != nil {
		patches = append(patches, amazonPatch{
			Op:   "replace",
			Path: "/attributes/fulfillment_availability",
			Value: []any{map[string]any{
				"fulfillment_channel_code": "DEFAULT",
				"quantity":                 *update.Quantity,
			}},
		})
	}
	if len(patches) == 0 {
		return connector.NewSyncSuccess("nothing to update", nil)
	}

	resp, err := retry.Do(ctx, "amazon.update_listing", c.retryOptions(), func(ctx context.Context) (*amazonSubmissionResponse, error) {
		var out amazonSubmissionResponse
		err := doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPatch,
			url:    c.listingURL(skuOrExternalID(update.SKU, update.ExternalID)),
			query:  map[string]string{"marketplaceIds": c.config.MarketplaceID},
			body:   amazonListingSubmission{ProductType: amazonDefaultProductType, Patches: patches},
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return connector.NewSyncFailure("failed to update listing", err.Error())
	}
	if submissionRejected(resp) {
		return connector.NewSyncFailure(fmt.Sprintf("listing update rejected: %s", issueSummary(resp.Issues)))
	}
	return connector.NewSyncSuccess("listing updated", nil)
}

// DeleteListing removes a listing by its SKU.
func (c *AmazonConnector) DeleteListing(ctx context.Context, externalID string) *connector.SyncResult {
	if externalID == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}

	_, err := retry.Do(ctx, "amazon.delete_listing", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodDelete,
			url:    c.listingURL(externalID),
			query:  map[string]string{"marketplaceIds": c.config.MarketplaceID},
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to delete listing", err.Error())
	}
	return connector.NewSyncSuccess("listing deleted", nil)
}

func (c *AmazonConnector) listingURL(sku string) string {
	return fmt.Sprintf("%s/listings/%s/items/%s/%s", c.config.APIBaseURL, amazonListingsAPIVersion, c.config.SellerID, url.PathEscape(sku))
}

func submissionRejected(resp *amazonSubmissionResponse) bool {
	return strings.EqualFold(resp.Status, "INVALID")
}

func issueSummary(issues []amazonIssue) string {
	if len(issues) == 0 {
		return "no issue details"
	}
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders retrieves orders created inside the window, following
// NextToken pagination and resolving line items per order.
func (c *AmazonConnector) GetOrders(ctx context.Context, startDate, endDate *time.Time) ([]connector.MarketplaceOrder, error) {
	return retry.Do(ctx, "amazon.get_orders", c.retryOptions(), func(ctx context.Context) ([]connector.MarketplaceOrder, error) {
		orders := make([]connector.MarketplaceOrder, 0)
		nextToken := ""
		for {
			query := map[string]string{
				"MarketplaceIds":    c.config.MarketplaceID,
				"MaxResultsPerPage": fmt.Sprintf("%d", amazonOrdersPageLimit),
			}
			if nextToken != "" {
				query["NextToken"] = nextToken
			} else {
				if startDate != nil {
					query["CreatedAfter"] = startDate.UTC().Format(time.RFC3339)
				}
				if endDate != nil {
					query["CreatedBefore"] = endDate.UTC().Format(time.RFC3339)
				}
			}

			var resp amazonOrdersResponse
			err := doJSON(ctx, c.httpClient, c.tokens, request{
				method: http.MethodGet,
				url:    c.config.APIBaseURL + "/orders/v0/orders",
				query:  query,
			}, &resp)
			if err != nil {
				return nil, err
			}

			for _, o := range resp.Payload.Orders {
				order, err := c.mapOrder(ctx, o)
				if err != nil {
					return nil, err
				}
				orders = append(orders, order)
			}

			if resp.Payload.NextToken == "" {
				break
			}
			nextToken = resp.Payload.NextToken
		}
		return orders, nil
	})
}

// mapOrder converts an Amazon order into the canonical model, fetching its
// line items.
func (c *AmazonConnector) mapOrder(ctx context.Context, o amazonOrder) (connector.MarketplaceOrder, error) {
	order := connector.MarketplaceOrder{
		ExternalID: o.AmazonOrderID,
		Status:     c.mapOrderStatus(o.OrderStatus),
		Currency:   "USD",
	}
	if t, err := time.Parse(time.RFC3339, o.PurchaseDate); err == nil {
		order.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, o.LastUpdateDate); err == nil {
		order.UpdatedAt = t
	}
	if o.OrderTotal != nil {
		if total, err := decimal.NewFromString(o.OrderTotal.Amount); err == nil {
			order.TotalAmount = total
			order.Currency = o.OrderTotal.CurrencyCode
		}
	}
	if o.BuyerInfo != nil {
		order.CustomerName = o.BuyerInfo.BuyerName
		order.CustomerEmail = o.BuyerInfo.BuyerEmail
	}
	if o.ShippingAddress != nil {
		order.ShippingAddress = &connector.Address{
			Name:       o.ShippingAddress.Name,
			Line1:      o.ShippingAddress.AddressLine1,
			Line2:      o.ShippingAddress.AddressLine2,
			City:       o.ShippingAddress.City,
			Region:     o.ShippingAddress.StateOrRegion,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.CountryCode,
		}
	}

	items, err := c.fetchOrderItems(ctx, o.AmazonOrderID)
	if err != nil {
		return connector.MarketplaceOrder{}, err
	}
	order.Items = items
	return order, nil
}

func (c *AmazonConnector) fetchOrderItems(ctx context.Context, orderID string) ([]connector.OrderItem, error) {
	items := make([]connector.OrderItem, 0)
	nextToken := ""
	for {
		query := map[string]string{}
		if nextToken != "" {
			query["NextToken"] = nextToken
		}

		var resp amazonOrderItemsResponse
		err := doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodGet,
			url:    fmt.Sprintf("%s/orders/v0/orders/%s/orderItems", c.config.APIBaseURL, url.PathEscape(orderID)),
			query:  query,
		}, &resp)
		if err != nil {
			return nil, err
		}

		for _, it := range resp.Payload.OrderItems {
			item := connector.OrderItem{
				SKU:        it.SellerSKU,
				ExternalID: it.OrderItemID,
				Title:      it.Title,
				Quantity:   it.QuantityOrdered,
			}
			if it.ItemPrice != nil {
				if price, err := decimal.NewFromString(it.ItemPrice.Amount); err == nil {
					item.Price = price
				}
			}
			items = append(items, item)
		}

		if resp.Payload.NextToken == "" {
			return items, nil
		}
		nextToken = resp.Payload.NextToken
	}
}

// mapOrderStatus maps an Amazon order status onto the canonical order
// status. Unknown statuses degrade to pending rather than failing the sync.
func (c *AmazonConnector) mapOrderStatus(status string) connector.OrderStatus {
	switch status {
	case "Pending", "PendingAvailability":
		return connector.OrderStatusPending
	case "Unshipped":
		return connector.OrderStatusConfirmed
	case "PartiallyShipped", "Shipped", "InvoiceUnconfirmed":
		return connector.OrderStatusShipped
	case "Canceled", "Unfulfillable":
		return connector.OrderStatusCancelled
	default:
		c.logger.Warn("Unknown Amazon order status", zap.String("status", status))
		return connector.OrderStatusPending
	}
}

// UpdateOrderStatus pushes a status change to Amazon. Only shipment
// confirmation is supported; Amazon drives the rest of the order lifecycle
// itself.
func (c *AmazonConnector) UpdateOrderStatus(ctx context.Context, externalID string, status connector.OrderStatus) *connector.SyncResult {
	if !status.IsValid() {
		return connector.NewSyncFailure(fmt.Sprintf("invalid order status: %s", status), connector.ErrValidation.Error())
	}
	if status != connector.OrderStatusShipped {
		return connector.NewSyncFailure(fmt.Sprintf("amazon does not accept status %s, only shipment confirmation", status))
	}

	confirmation := amazonShipmentConfirmation{MarketplaceID: c.config.MarketplaceID}
	confirmation.PackageDetail.PackageReferenceID = "1"
	confirmation.PackageDetail.ShipDate = time.Now().UTC().Format(time.RFC3339)

	_, err := retry.Do(ctx, "amazon.confirm_shipment", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPost,
			url:    fmt.Sprintf("%s/orders/v0/orders/%s/shipmentConfirmation", c.config.APIBaseURL, url.PathEscape(externalID)),
			body:   confirmation,
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to confirm shipment", err.Error())
	}
	return connector.NewSyncSuccess("shipment confirmed", nil)
}

// ---------------------------------------------------------------------------
// Batch Operations
// ---------------------------------------------------------------------------

// UpdateInventory patches fulfillment availability per SKU, bounded by the
// marketplace rate limits. The batch reports per-item outcomes.
func (c *AmazonConnector) UpdateInventory(ctx context.Context, updates []connector.InventoryUpdate) *connector.SyncResult {
	items := runBatch(ctx, c.tuning.limit(AmazonMarketplaceInfo().RateLimits.RequestsPerSecond), updates, func(ctx context.Context, u connector.InventoryUpdate) connector.ItemResult {
		if u.Quantity < 0 {
			return connector.ItemResult{SKU: u.SKU, Error: connector.ErrListingNegativeQty.Error()}
		}
		qty := u.Quantity
		result := c.UpdateListing(ctx, connector.ListingUpdate{
			SKU:        u.SKU,
			ExternalID: u.ExternalID,
			Quantity:   &qty,
		})
		if !result.Success {
			return connector.ItemResult{SKU: u.SKU, Error: resultError(result)}
		}
		return connector.ItemResult{SKU: u.SKU, Success: true}
	})
	return connector.NewBatchResult("inventory sync", items)
}

// UpdatePricing patches the purchasable offer per SKU.
func (c *AmazonConnector) UpdatePricing(ctx context.Context, updates []connector.PriceUpdate) *connector.SyncResult {
	items := runBatch(ctx, c.tuning.limit(AmazonMarketplaceInfo().RateLimits.RequestsPerSecond), updates, func(ctx context.Context, u connector.PriceUpdate) connector.ItemResult {
		if u.Price.IsNegative() {
			return connector.ItemResult{SKU: u.SKU, Error: connector.ErrListingNegativePrice.Error()}
		}
		if err := connector.ValidateCurrency(u.Currency); err != nil {
			return connector.ItemResult{SKU: u.SKU, Error: err.Error()}
		}
		price := u.Price
		result := c.UpdateListing(ctx, connector.ListingUpdate{
			SKU:        u.SKU,
			ExternalID: u.ExternalID,
			Price:      &price,
			Currency:   u.Currency,
		})
		if !result.Success {
			return connector.ItemResult{SKU: u.SKU, Error: resultError(result)}
		}
		return connector.ItemResult{SKU: u.SKU, Success: true}
	})
	return connector.NewBatchResult("pricing sync", items)
}

func skuOrExternalID(sku, externalID string) string {
	if externalID != "" {
		return externalID
	}
	return sku
}

// resultError picks the most specific failure text out of a SyncResult.
func resultError(r *connector.SyncResult) string {
	if len(r.Errors) > 0 {
		return r.Errors[0]
	}
	return r.Message
}
