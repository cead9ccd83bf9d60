package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
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
	ebayInventoryPageLimit = 100
	ebayOrdersPageLimit    = 50
	ebayBulkChunkSize      = 25

	ebayOAuthScope = "https://api.ebay.com/oauth/api_scope/sell.inventory https://api.ebay.com/oauth/api_scope/sell.fulfillment https://api.ebay.com/oauth/api_scope/sell.account"
)

// EbayConnector implements the Connector interface for the eBay Sell APIs.
type EbayConnector struct {
	config     *EbayConfig
	settings   connector.Settings
	tuning     tuning
	httpClient *http.Client
	tokens     *tokenManager
	logger     *zap.Logger
}

var _ connector.Connector = (*EbayConnector)(nil)
var _ connector.AuthorizationProbe = (*EbayConnector)(nil)

// NewEbayConnector creates a new eBay connector with the given
// configuration.
func NewEbayConnector(config *EbayConfig, settings connector.Settings, logger *zap.Logger, transport http.RoundTripper) (*EbayConnector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	settings = settings.ApplyDefaults()

	c := &EbayConnector{
		config:     config,
		settings:   settings,
		httpClient: newHTTPClient(time.Duration(config.TimeoutSeconds)*time.Second, transport),
		logger:     logger.Named("ebay"),
	}
	c.tokens = newTokenManager(c.exchangeToken, c.logger)
	return c, nil
}

// Info returns the eBay connector's capability metadata.
func (c *EbayConnector) Info() connector.MarketplaceInfo {
	return EbayMarketplaceInfo()
}

func (c *EbayConnector) retryOptions() retry.Options {
	return retry.Options{
		MaxAttempts:  c.settings.ErrorRetryAttempts,
		InitialDelay: c.tuning.retryDelay,
		Logger:       c.logger,
	}
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// exchangeToken performs the eBay OAuth refresh_token grant. Client
// credentials go in the Basic authorization header.
func (c *EbayConnector) exchangeToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.config.RefreshToken)
	form.Set("scope", ebayOAuthScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthBaseURL+"/identity/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
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

	var token ebayTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	return token.AccessToken, time.Now().Add(time.Duration(token.ExpiresIn) * time.Second), nil
}

// Authenticate verifies the credentials can obtain an access token.
func (c *EbayConnector) Authenticate(ctx context.Context) bool {
	_, err := c.tokens.ValidToken(ctx)
	if err != nil {
		c.logger.Warn("Authentication failed", zap.Error(err))
		return false
	}
	return true
}

// CheckAuthorization probes the Sell Account privilege endpoint, which
// requires the sell scopes the connector operates under.
func (c *EbayConnector) CheckAuthorization(ctx context.Context) error {
	var resp ebayPrivilegeResponse
	return doJSON(ctx, c.httpClient, c.tokens, request{
		method: http.MethodGet,
		url:    c.config.APIBaseURL + "/sell/account/v1/privilege",
	}, &resp)
}

// ---------------------------------------------------------------------------
// Listing Operations
// ---------------------------------------------------------------------------

// GetListings pages through the inventory items and joins each with its
// offer to resolve price, listing ID and publication status.
func (c *EbayConnector) GetListings(ctx context.Context) ([]connector.ProductListing, error) {
	return retry.Do(ctx, "ebay.get_listings", c.retryOptions(), func(ctx context.Context) ([]connector.ProductListing, error) {
		listings := make([]connector.ProductListing, 0)
		offset := 0
		for {
			var resp ebayInventoryItemsResponse
			err := doJSON(ctx, c.httpClient, c.tokens, request{
				method: http.MethodGet,
				url:    c.config.APIBaseURL + "/sell/inventory/v1/inventory_item",
				query: map[string]string{
					"limit":  fmt.Sprintf("%d", ebayInventoryPageLimit),
					"offset": fmt.Sprintf("%d", offset),
				},
			}, &resp)
			if err != nil {
				return nil, err
			}

			for _, item := range resp.InventoryItems {
				listing := c.mapInventoryItem(item)
				if err := c.attachOffer(ctx, &listing); err != nil {
					return nil, err
				}
				listings = append(listings, listing)
			}

			offset += len(resp.InventoryItems)
			if resp.Next == "" || len(resp.InventoryItems) == 0 {
				break
			}
		}
		return listings, nil
	})
}

func (c *EbayConnector) mapInventoryItem(item ebayInventoryItem) connector.ProductListing {
	listing := connector.ProductListing{
		SKU:        item.SKU,
		ExternalID: item.SKU,
		Status:     connector.ListingStatusInactive,
		Currency:   "USD",
	}
	if item.Product != nil {
		listing.Title = item.Product.Title
		listing.Description = item.Product.Description
		listing.Brand = item.Product.Brand
		listing.Images = item.Product.ImageURLs
	}
	if item.Availability != nil && item.Availability.ShipToLocationAvailability != nil {
		listing.Quantity = item.Availability.ShipToLocationAvailability.Quantity
	}
	return listing
}

// attachOffer resolves the offer for a SKU and folds its price, listing ID
// and publication status into the listing. A SKU without an offer stays
// pending: the item exists in inventory but is not listed yet.
func (c *EbayConnector) attachOffer(ctx context.Context, listing *connector.ProductListing) error {
	offer, err := c.findOffer(ctx, listing.SKU)
	if err != nil {
		return err
	}
	if offer == nil {
		listing.Status = connector.ListingStatusPending
		return nil
	}

	if offer.Status == "PUBLISHED" {
		listing.Status = connector.ListingStatusActive
	} else {
		listing.Status = connector.ListingStatusInactive
	}
	if offer.Listing != nil && offer.Listing.ListingID != "" {
		listing.ExternalID = offer.Listing.ListingID
	}
	if offer.PricingSummary != nil {
		if price, err := decimal.NewFromString(offer.PricingSummary.Price.Value); err == nil {
			listing.Price = price
			listing.Currency = offer.PricingSummary.Price.Currency
		}
	}
	return nil
}

// findOffer returns the offer for a SKU on the configured marketplace, or
// nil when the SKU has no offer.
func (c *EbayConnector) findOffer(ctx context.Context, sku string) (*ebayOffer, error) {
	var resp ebayOffersResponse
	err := doJSON(ctx, c.httpClient, c.tokens, request{
		method: http.MethodGet,
		url:    c.config.APIBaseURL + "/sell/inventory/v1/offer",
		query:  map[string]string{"sku": sku},
	}, &resp)
	if err != nil {
		// eBay answers 404 for a SKU without offers. Any other 4xx is a
		// real failure and must not read as absence.
		if errors.Is(err, connector.ErrRequestFailed) && httpStatus(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	for i := range resp.Offers {
		if resp.Offers[i].MarketplaceID == "" || resp.Offers[i].MarketplaceID == c.config.MarketplaceID {
			return &resp.Offers[i], nil
		}
	}
	return nil, nil
}

// CreateListing creates the inventory item and an unpublished fixed-price
// offer carrying the price.
func (c *EbayConnector) CreateListing(ctx context.Context, listing connector.ProductListing) *connector.SyncResult {
	if err := listing.Validate(); err != nil {
		return connector.NewSyncFailure("listing validation failed", err.Error())
	}

	item := ebayInventoryItem{
		SKU: listing.SKU,
		Product: &ebayProduct{
			Title:       listing.Title,
			Description: listing.Description,
			Brand:       listing.Brand,
			ImageURLs:   listing.Images,
		},
		Availability: &ebayAvailability{
			ShipToLocationAvailability: &ebayShipToLocation{Quantity: listing.Quantity},
		},
	}

	_, err := retry.Do(ctx, "ebay.create_inventory_item", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPut,
			url:    c.inventoryItemURL(listing.SKU),
			header: map[string]string{"Content-Language": "en-US"},
			body:   item,
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to create inventory item", err.Error())
	}

	offer := map[string]any{
		"sku":           listing.SKU,
		"marketplaceId": c.config.MarketplaceID,
		"format":        "FIXED_PRICE",
		"pricingSummary": map[string]any{
			"price": ebayAmount{Value: listing.Price.String(), Currency: listing.Currency},
		},
		"availableQuantity": listing.Quantity,
	}
	if listing.Category != "" {
		offer["categoryId"] = listing.Category
	}

	var created struct {
		OfferID string `json:"offerId"`
	}
	_, err = retry.Do(ctx, "ebay.create_offer", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPost,
			url:    c.config.APIBaseURL + "/sell/inventory/v1/offer",
			header: map[string]string{"Content-Language": "en-US"},
			body:   offer,
		}, &created)
	})
	if err != nil {
		return connector.NewSyncFailure("inventory item created but offer creation failed", err.Error())
	}

	return connector.NewSyncSuccess("listing created", map[string]string{
		"externalId": listing.SKU,
		"offerId":    created.OfferID,
	})
}

// UpdateListing applies a partial update. Title and description changes
// rewrite the inventory item; price and quantity changes go through the
// bulk price/quantity endpoint.
func (c *EbayConnector) UpdateListing(ctx context.Context, update connector.ListingUpdate) *connector.SyncResult {
	sku := update.SKU
	if sku == "" {
		sku = update.ExternalID
	}
	if sku == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}

	if update.Title != nil || update.Description != nil {
		if result := c.rewriteInventoryItem(ctx, sku, update); !result.Success {
			return result
		}
	}

	if update.Price != nil || update.Quantity != nil {
		entry := ebayPriceQuantity{SKU: sku}
		if update.Quantity != nil {
			entry.ShipToLocationAvailability = &ebayShipToLocation{Quantity: *update.Quantity}
		}
		if update.Price != nil {
			offer, err := c.findOffer(ctx, sku)
			if err != nil {
				return connector.NewSyncFailure("failed to resolve offer for price update", err.Error())
			}
			if offer == nil {
				return connector.NewSyncFailure(fmt.Sprintf("no offer exists for sku %s", sku))
			}
			currency := update.Currency
			if currency == "" {
				currency = "USD"
			}
			entry.Offers = []ebayOfferPriceEntry{{
				OfferID: offer.OfferID,
				Price:   ebayAmount{Value: update.Price.String(), Currency: currency},
			}}
		}

		items := c.bulkPriceQuantity(ctx, []ebayPriceQuantity{entry})
		if len(items) != 1 || !items[0].Success {
			return connector.NewSyncFailure("failed to update listing", resultErrorFromItems(items))
		}
	}

	return connector.NewSyncSuccess("listing updated", nil)
}

// rewriteInventoryItem fetches the current item, applies the changed
// fields and writes it back. The Sell Inventory PUT is a full replace.
func (c *EbayConnector) rewriteInventoryItem(ctx context.Context, sku string, update connector.ListingUpdate) *connector.SyncResult {
	item, err := retry.Do(ctx, "ebay.get_inventory_item", c.retryOptions(), func(ctx context.Context) (*ebayInventoryItem, error) {
		var out ebayInventoryItem
		err := doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodGet,
			url:    c.inventoryItemURL(sku),
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return connector.NewSyncFailure("failed to load inventory item", err.Error())
	}

	if item.Product == nil {
		item.Product = &ebayProduct{}
	}
	if update.Title != nil {
		item.Product.Title = *update.Title
	}
	if update.Description != nil {
		item.Product.Description = *update.Description
	}
	item.SKU = sku

	_, err = retry.Do(ctx, "ebay.put_inventory_item", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPut,
			url:    c.inventoryItemURL(sku),
			header: map[string]string{"Content-Language": "en-US"},
			body:   item,
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to update inventory item", err.Error())
	}
	return connector.NewSyncSuccess("inventory item updated", nil)
}

// DeleteListing removes the inventory item, which also ends its offers.
func (c *EbayConnector) DeleteListing(ctx context.Context, externalID string) *connector.SyncResult {
	if externalID == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}

	_, err := retry.Do(ctx, "ebay.delete_listing", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodDelete,
			url:    c.inventoryItemURL(externalID),
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to delete listing", err.Error())
	}
	return connector.NewSyncSuccess("listing deleted", nil)
}

func (c *EbayConnector) inventoryItemURL(sku string) string {
	return c.config.APIBaseURL + "/sell/inventory/v1/inventory_item/" + url.PathEscape(sku)
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders pulls orders from the Sell Fulfillment API, filtered by
// creation date and collapsed across pages.
func (c *EbayConnector) GetOrders(ctx context.Context, startDate, endDate *time.Time) ([]connector.MarketplaceOrder, error) {
	return retry.Do(ctx, "ebay.get_orders", c.retryOptions(), func(ctx context.Context) ([]connector.MarketplaceOrder, error) {
		orders := make([]connector.MarketplaceOrder, 0)
		offset := 0
		for {
			query := map[string]string{
				"limit":  fmt.Sprintf("%d", ebayOrdersPageLimit),
				"offset": fmt.Sprintf("%d", offset),
			}
			if filter := ebayCreationDateFilter(startDate, endDate); filter != "" {
				query["filter"] = filter
			}

			var resp ebayOrdersResponse
			err := doJSON(ctx, c.httpClient, c.tokens, request{
				method: http.MethodGet,
				url:    c.config.APIBaseURL + "/sell/fulfillment/v1/order",
				query:  query,
			}, &resp)
			if err != nil {
				return nil, err
			}

			for _, o := range resp.Orders {
				orders = append(orders, c.mapOrder(o))
			}

			offset += len(resp.Orders)
			if resp.Next == "" || len(resp.Orders) == 0 {
				break
			}
		}
		return orders, nil
	})
}

// ebayCreationDateFilter renders the creationdate range filter. An open
// end keeps the range half-bounded.
func ebayCreationDateFilter(startDate, endDate *time.Time) string {
	if startDate == nil && endDate == nil {
		return ""
	}
	start, end := "", ""
	if startDate != nil {
		start = startDate.UTC().Format(time.RFC3339)
	}
	if endDate != nil {
		end = endDate.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("creationdate:[%s..%s]", start, end)
}

func (c *EbayConnector) mapOrder(o ebayOrder) connector.MarketplaceOrder {
	order := connector.MarketplaceOrder{
		ExternalID: o.OrderID,
		Status:     c.mapOrderStatus(o),
		Currency:   "USD",
	}
	if t, err := time.Parse(time.RFC3339, o.CreationDate); err == nil {
		order.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, o.LastModifiedDate); err == nil {
		order.UpdatedAt = t
	}
	if o.PricingSummary != nil {
		if total, err := decimal.NewFromString(o.PricingSummary.Total.Value); err == nil {
			order.TotalAmount = total
			order.Currency = o.PricingSummary.Total.Currency
		}
	}
	if o.Buyer != nil {
		order.CustomerName = o.Buyer.Username
	}

	for _, li := range o.LineItems {
		item := connector.OrderItem{
			SKU:        li.SKU,
			ExternalID: li.LineItemID,
			Title:      li.Title,
			Quantity:   li.Quantity,
		}
		if li.Total != nil && li.Quantity > 0 {
			if total, err := decimal.NewFromString(li.Total.Value); err == nil {
				item.Price = total.Div(decimal.NewFromInt(int64(li.Quantity)))
			}
		}
		order.Items = append(order.Items, item)
	}

	for _, fsi := range o.FulfillmentStartInstructions {
		if fsi.ShippingStep == nil || fsi.ShippingStep.ShipTo == nil {
			continue
		}
		shipTo := fsi.ShippingStep.ShipTo
		addr := &connector.Address{Name: shipTo.FullName}
		if shipTo.ContactAddress != nil {
			addr.Line1 = shipTo.ContactAddress.AddressLine1
			addr.Line2 = shipTo.ContactAddress.AddressLine2
			addr.City = shipTo.ContactAddress.City
			addr.Region = shipTo.ContactAddress.StateOrProvince
			addr.PostalCode = shipTo.ContactAddress.PostalCode
			addr.Country = shipTo.ContactAddress.CountryCode
		}
		if shipTo.PrimaryPhone != nil {
			addr.Phone = shipTo.PrimaryPhone.PhoneNumber
		}
		order.ShippingAddress = addr
		if shipTo.Email != "" {
			order.CustomerEmail = shipTo.Email
		}
		break
	}
	return order
}

// mapOrderStatus combines the fulfilment status with the cancel state.
// Cancellation wins over any fulfilment progress.
func (c *EbayConnector) mapOrderStatus(o ebayOrder) connector.OrderStatus {
	if o.CancelStatus != nil && strings.EqualFold(o.CancelStatus.CancelState, "CANCELED") {
		return connector.OrderStatusCancelled
	}

	switch strings.ToUpper(o.OrderFulfillmentStatus) {
	case "INCOMPLETE", "IN_PROCESS", "NOT_STARTED":
		return connector.OrderStatusConfirmed
	case "PARTIALLY_SHIPPED":
		return connector.OrderStatusShipped
	case "FULFILLED", "COMPLETE":
		return connector.OrderStatusDelivered
	default:
		c.logger.Warn("Unknown eBay fulfillment status", zap.String("status", o.OrderFulfillmentStatus))
		return connector.OrderStatusPending
	}
}

// UpdateOrderStatus pushes a status change to eBay. Shipment is reported
// by creating a shipping fulfillment covering every line item; other
// transitions are buyer-driven on eBay and report as unsupported.
func (c *EbayConnector) UpdateOrderStatus(ctx context.Context, externalID string, status connector.OrderStatus) *connector.SyncResult {
	if !status.IsValid() {
		return connector.NewSyncFailure(fmt.Sprintf("invalid order status: %s", status), connector.ErrValidation.Error())
	}
	if status != connector.OrderStatusShipped {
		return connector.NewSyncFailure(fmt.Sprintf("ebay does not accept status %s, only shipment notification", status))
	}

	// The fulfillment needs the order's line items.
	order, err := retry.Do(ctx, "ebay.get_order", c.retryOptions(), func(ctx context.Context) (*ebayOrder, error) {
		var out ebayOrder
		err := doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodGet,
			url:    c.config.APIBaseURL + "/sell/fulfillment/v1/order/" + url.PathEscape(externalID),
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return connector.NewSyncFailure("failed to load order", err.Error())
	}

	fulfillment := ebayShippingFulfillment{ShippedDate: time.Now().UTC().Format(time.RFC3339)}
	for _, li := range order.LineItems {
		fulfillment.LineItems = append(fulfillment.LineItems, ebayFulfillmentLine{
			LineItemID: li.LineItemID,
			Quantity:   li.Quantity,
		})
	}

	_, err = retry.Do(ctx, "ebay.create_shipping_fulfillment", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, doJSON(ctx, c.httpClient, c.tokens, request{
			method: http.MethodPost,
			url:    c.config.APIBaseURL + "/sell/fulfillment/v1/order/" + url.PathEscape(externalID) + "/shipping_fulfillment",
			body:   fulfillment,
		}, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to create shipping fulfillment", err.Error())
	}
	return connector.NewSyncSuccess("shipment reported", nil)
}

// ---------------------------------------------------------------------------
// Batch Operations
// ---------------------------------------------------------------------------

// UpdateInventory sends quantity changes through bulk_update_price_quantity
// in chunks of at most 25 SKUs.
func (c *EbayConnector) UpdateInventory(ctx context.Context, updates []connector.InventoryUpdate) *connector.SyncResult {
	entries := make([]ebayPriceQuantity, 0, len(updates))
	items := make([]connector.ItemResult, 0, len(updates))
	for _, u := range updates {
		if u.Quantity < 0 {
			items = append(items, connector.ItemResult{SKU: u.SKU, Error: connector.ErrListingNegativeQty.Error()})
			continue
		}
		entries = append(entries, ebayPriceQuantity{
			SKU:                        u.SKU,
			ShipToLocationAvailability: &ebayShipToLocation{Quantity: u.Quantity},
		})
	}

	items = append(items, c.bulkPriceQuantity(ctx, entries)...)
	return connector.NewBatchResult("inventory sync", items)
}

// UpdatePricing resolves each SKU's offer and sends price changes through
// bulk_update_price_quantity.
func (c *EbayConnector) UpdatePricing(ctx context.Context, updates []connector.PriceUpdate) *connector.SyncResult {
	entries := make([]ebayPriceQuantity, 0, len(updates))
	items := make([]connector.ItemResult, 0, len(updates))
	for _, u := range updates {
		if u.Price.IsNegative() {
			items = append(items, connector.ItemResult{SKU: u.SKU, Error: connector.ErrListingNegativePrice.Error()})
			continue
		}
		if err := connector.ValidateCurrency(u.Currency); err != nil {
			items = append(items, connector.ItemResult{SKU: u.SKU, Error: err.Error()})
			continue
		}

		offerID := u.ExternalID
		if offerID == "" {
			offer, err := c.findOffer(ctx, u.SKU)
			if err != nil {
				items = append(items, connector.ItemResult{SKU: u.SKU, Error: err.Error()})
				continue
			}
			if offer == nil {
				items = append(items, connector.ItemResult{SKU: u.SKU, Error: "no offer exists for sku"})
				continue
			}
			offerID = offer.OfferID
		}

		entries = append(entries, ebayPriceQuantity{
			SKU: u.SKU,
			Offers: []ebayOfferPriceEntry{{
				OfferID: offerID,
				Price:   ebayAmount{Value: u.Price.String(), Currency: u.Currency},
			}},
		})
	}

	items = append(items, c.bulkPriceQuantity(ctx, entries)...)
	return connector.NewBatchResult("pricing sync", items)
}

// bulkPriceQuantity dispatches entries through the bulk endpoint in chunks
// and folds the per-entry HTTP statuses into item results.
func (c *EbayConnector) bulkPriceQuantity(ctx context.Context, entries []ebayPriceQuantity) []connector.ItemResult {
	results := make([]connector.ItemResult, 0, len(entries))
	for start := 0; start < len(entries); start += ebayBulkChunkSize {
		end := start + ebayBulkChunkSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]

		resp, err := retry.Do(ctx, "ebay.bulk_update_price_quantity", c.retryOptions(), func(ctx context.Context) (*ebayBulkPriceQuantityResponse, error) {
			var out ebayBulkPriceQuantityResponse
			err := doJSON(ctx, c.httpClient, c.tokens, request{
				method: http.MethodPost,
				url:    c.config.APIBaseURL + "/sell/inventory/v1/bulk_update_price_quantity",
				body:   ebayBulkPriceQuantityRequest{Requests: chunk},
			}, &out)
			if err != nil {
				return nil, err
			}
			return &out, nil
		})
		if err != nil {
			for _, e := range chunk {
				results = append(results, connector.ItemResult{SKU: e.SKU, Error: err.Error()})
			}
			continue
		}

		bySKU := make(map[string]ebayBulkEntryResponse, len(resp.Responses))
		for _, r := range resp.Responses {
			bySKU[r.SKU] = r
		}
		for _, e := range chunk {
			r, ok := bySKU[e.SKU]
			if !ok {
				results = append(results, connector.ItemResult{SKU: e.SKU, Error: "no response entry for sku"})
				continue
			}
			if r.StatusCode >= 200 && r.StatusCode < 300 {
				results = append(results, connector.ItemResult{SKU: e.SKU, Success: true, ExternalID: r.OfferID})
				continue
			}
			msg := fmt.Sprintf("status %d", r.StatusCode)
			if len(r.Errors) > 0 {
				msg = r.Errors[0].Message
			}
			results = append(results, connector.ItemResult{SKU: e.SKU, Error: msg})
		}
	}
	return results
}

func resultErrorFromItems(items []connector.ItemResult) string {
	for _, item := range items {
		if !item.Success && item.Error != "" {
			return item.Error
		}
	}
	return "unknown failure"
}
