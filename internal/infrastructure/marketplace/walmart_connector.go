package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
	"github.com/channelgrid/backend/internal/infrastructure/retry"
)

const (
	walmartTokenHeader     = "WM_SEC.ACCESS_TOKEN"
	walmartItemsPageLimit  = 200
	walmartOrdersPageLimit = 100
)

// WalmartConnector implements the Connector interface for the Walmart
// Marketplace API.
type WalmartConnector struct {
	config     *WalmartConfig
	settings   connector.Settings
	tuning     tuning
	httpClient *http.Client
	tokens     *tokenManager
	logger     *zap.Logger
}

var _ connector.Connector = (*WalmartConnector)(nil)
var _ connector.AuthorizationProbe = (*WalmartConnector)(nil)

// NewWalmartConnector creates a new Walmart connector with the given
// configuration.
func NewWalmartConnector(config *WalmartConfig, settings connector.Settings, logger *zap.Logger, transport http.RoundTripper) (*WalmartConnector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	settings = settings.ApplyDefaults()

	c := &WalmartConnector{
		config:     config,
		settings:   settings,
		httpClient: newHTTPClient(time.Duration(config.TimeoutSeconds)*time.Second, transport),
		logger:     logger.Named("walmart"),
	}
	c.tokens = newTokenManager(c.exchangeToken, c.logger)
	return c, nil
}

// Info returns the Walmart connector's capability metadata.
func (c *WalmartConnector) Info() connector.MarketplaceInfo {
	return WalmartMarketplaceInfo()
}

func (c *WalmartConnector) retryOptions() retry.Options {
	return retry.Options{
		MaxAttempts:  c.settings.ErrorRetryAttempts,
		InitialDelay: c.tuning.retryDelay,
		Logger:       c.logger,
	}
}

func (c *WalmartConnector) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.config.ClientID+":"+c.config.ClientSecret))
}

// walmartHeaders builds the per-request headers Walmart requires next to
// the access token.
func (c *WalmartConnector) walmartHeaders() map[string]string {
	return map[string]string{
		"Authorization":         c.basicAuth(),
		"WM_QOS.CORRELATION_ID": uuid.NewString(),
		"WM_SVC.NAME":           c.config.ServiceName,
	}
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// exchangeToken performs the Walmart client-credentials token exchange.
func (c *WalmartConnector) exchangeToken(ctx context.Context) (string, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBaseURL+"/v3/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Authorization", c.basicAuth())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("WM_QOS.CORRELATION_ID", uuid.NewString())
	req.Header.Set("WM_SVC.NAME", c.config.ServiceName)

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

	var token walmartTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	return token.AccessToken, time.Now().Add(time.Duration(token.ExpiresIn) * time.Second), nil
}

// Authenticate verifies the credentials can obtain an access token.
func (c *WalmartConnector) Authenticate(ctx context.Context) bool {
	_, err := c.tokens.ValidToken(ctx)
	if err != nil {
		c.logger.Warn("Authentication failed", zap.Error(err))
		return false
	}
	return true
}

// CheckAuthorization asks Walmart to introspect the token's validity and
// scopes.
func (c *WalmartConnector) CheckAuthorization(ctx context.Context) error {
	var resp walmartTokenDetailResponse
	err := c.do(ctx, http.MethodGet, "/v3/token/detail", nil, nil, &resp)
	if err != nil {
		return err
	}
	if !resp.IsValid {
		return fmt.Errorf("%w: token reported invalid by /v3/token/detail", connector.ErrNotAuthorized)
	}
	return nil
}

// do wraps doJSON with the Walmart header conventions.
func (c *WalmartConnector) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	return doJSON(ctx, c.httpClient, c.tokens, request{
		method:      method,
		url:         c.config.APIBaseURL + path,
		query:       query,
		header:      c.walmartHeaders(),
		body:        body,
		tokenHeader: walmartTokenHeader,
	}, out)
}

// ---------------------------------------------------------------------------
// Listing Operations
// ---------------------------------------------------------------------------

// GetListings retrieves the item catalog, following cursors until
// exhausted.
func (c *WalmartConnector) GetListings(ctx context.Context) ([]connector.ProductListing, error) {
	return retry.Do(ctx, "walmart.get_listings", c.retryOptions(), func(ctx context.Context) ([]connector.ProductListing, error) {
		listings := make([]connector.ProductListing, 0)
		cursor := ""
		for {
			query := map[string]string{"limit": fmt.Sprintf("%d", walmartItemsPageLimit)}
			if cursor != "" {
				query["nextCursor"] = cursor
			}

			var resp walmartItemsResponse
			if err := c.do(ctx, http.MethodGet, "/v3/items", query, nil, &resp); err != nil {
				return nil, err
			}

			for _, item := range resp.Items {
				listings = append(listings, mapWalmartItem(item))
			}

			if resp.NextCursor == "" || len(resp.Items) == 0 {
				break
			}
			cursor = resp.NextCursor
		}
		return listings, nil
	})
}

func mapWalmartItem(item walmartItem) connector.ProductListing {
	listing := connector.ProductListing{
		SKU:        item.SKU,
		ExternalID: item.WPID,
		Title:      item.ProductName,
		Brand:      item.Brand,
		Currency:   "USD",
		Status:     mapWalmartPublishedStatus(item.PublishedStatus),
	}
	if listing.ExternalID == "" {
		listing.ExternalID = item.SKU
	}
	if item.Price != nil {
		listing.Price = decimal.NewFromFloat(item.Price.Amount)
		if item.Price.Currency != "" {
			listing.Currency = item.Price.Currency
		}
	}
	return listing
}

func mapWalmartPublishedStatus(status string) connector.ListingStatus {
	switch strings.ToUpper(status) {
	case "PUBLISHED":
		return connector.ListingStatusActive
	case "UNPUBLISHED", "RETIRED":
		return connector.ListingStatusInactive
	case "IN_PROGRESS", "READY_TO_PUBLISH":
		return connector.ListingStatusPending
	case "SYSTEM_PROBLEM":
		return connector.ListingStatusError
	default:
		return connector.ListingStatusInactive
	}
}

// CreateListing submits an item feed. Walmart item setup is asynchronous:
// the result carries the feed ID the caller can poll.
func (c *WalmartConnector) CreateListing(ctx context.Context, listing connector.ProductListing) *connector.SyncResult {
	if err := listing.Validate(); err != nil {
		return connector.NewSyncFailure("listing validation failed", err.Error())
	}

	feed := map[string]any{
		"MPItemFeedHeader": map[string]any{
			"sellingChannel": "marketplace",
			"version":        "4.8",
			"locale":         "en",
		},
		"MPItem": []map[string]any{{
			"Orderable": map[string]any{
				"sku":            listing.SKU,
				"productName":    listing.Title,
				"brand":          listing.Brand,
				"price":          listing.Price.InexactFloat64(),
				"ShippingWeight": 1,
			},
			"Visible": map[string]any{
				"shortDescription": listing.Description,
				"mainImageUrl":     firstOrEmpty(listing.Images),
			},
		}},
	}

	ack, err := retry.Do(ctx, "walmart.submit_item_feed", c.retryOptions(), func(ctx context.Context) (*walmartFeedAck, error) {
		var out walmartFeedAck
		err := c.do(ctx, http.MethodPost, "/v3/feeds", map[string]string{"feedType": "MP_ITEM"}, feed, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return connector.NewSyncFailure("failed to submit item feed", err.Error())
	}

	return connector.NewSyncSuccess("item feed submitted; walmart processes item setup asynchronously", map[string]string{
		"feedId": ack.FeedID,
		"sku":    listing.SKU,
	})
}

// UpdateListing applies price and quantity changes through the dedicated
// price and inventory endpoints. Content changes need an item feed and
// report as unsupported here.
func (c *WalmartConnector) UpdateListing(ctx context.Context, update connector.ListingUpdate) *connector.SyncResult {
	sku := update.SKU
	if sku == "" {
		sku = update.ExternalID
	}
	if sku == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}
	if update.Title != nil || update.Description != nil {
		return connector.NewSyncFailure("walmart content changes require an item feed, only price and quantity are updatable in place")
	}

	if update.Quantity != nil {
		if result := c.putInventory(ctx, sku, *update.Quantity); !result.Success {
			return result
		}
	}
	if update.Price != nil {
		currency := update.Currency
		if currency == "" {
			currency = "USD"
		}
		if result := c.putPrice(ctx, sku, *update.Price, currency); !result.Success {
			return result
		}
	}
	return connector.NewSyncSuccess("listing updated", nil)
}

// DeleteListing retires an item by SKU.
func (c *WalmartConnector) DeleteListing(ctx context.Context, externalID string) *connector.SyncResult {
	if externalID == "" {
		return connector.NewSyncFailure("listing validation failed", connector.ErrListingMissingSKU.Error())
	}

	_, err := retry.Do(ctx, "walmart.delete_listing", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodDelete, "/v3/items/"+url.PathEscape(externalID), nil, nil, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to delete listing", err.Error())
	}
	return connector.NewSyncSuccess("listing retired", nil)
}

func (c *WalmartConnector) putInventory(ctx context.Context, sku string, quantity int) *connector.SyncResult {
	if quantity < 0 {
		return connector.NewSyncFailure("inventory update rejected", connector.ErrListingNegativeQty.Error())
	}

	body := walmartInventory{SKU: sku, Quantity: walmartInventoryQty{Unit: "EACH", Amount: quantity}}
	_, err := retry.Do(ctx, "walmart.put_inventory", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPut, "/v3/inventory", map[string]string{"sku": sku}, body, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to update inventory", err.Error())
	}
	return connector.NewSyncSuccess("inventory updated", nil)
}

func (c *WalmartConnector) putPrice(ctx context.Context, sku string, price decimal.Decimal, currency string) *connector.SyncResult {
	if price.IsNegative() {
		return connector.NewSyncFailure("price update rejected", connector.ErrListingNegativePrice.Error())
	}
	if err := connector.ValidateCurrency(currency); err != nil {
		return connector.NewSyncFailure("price update rejected", err.Error())
	}

	body := walmartPriceUpdate{
		SKU: sku,
		Pricing: []walmartPriceEntry{{
			CurrentPriceType: "BASE",
			CurrentPrice:     walmartMoney{Currency: currency, Amount: price.String()},
		}},
	}
	_, err := retry.Do(ctx, "walmart.put_price", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPut, "/v3/price", nil, body, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to update price", err.Error())
	}
	return connector.NewSyncSuccess("price updated", nil)
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders pulls orders inside the window, following cursors.
func (c *WalmartConnector) GetOrders(ctx context.Context, startDate, endDate *time.Time) ([]connector.MarketplaceOrder, error) {
	return retry.Do(ctx, "walmart.get_orders", c.retryOptions(), func(ctx context.Context) ([]connector.MarketplaceOrder, error) {
		orders := make([]connector.MarketplaceOrder, 0)
		cursor := ""
		for {
			query := map[string]string{"limit": fmt.Sprintf("%d", walmartOrdersPageLimit)}
			if cursor != "" {
				query["nextCursor"] = cursor
			} else {
				if startDate != nil {
					query["createdStartDate"] = startDate.UTC().Format(time.RFC3339)
				}
				if endDate != nil {
					query["createdEndDate"] = endDate.UTC().Format(time.RFC3339)
				}
			}

			var resp walmartOrdersResponse
			if err := c.do(ctx, http.MethodGet, "/v3/orders", query, nil, &resp); err != nil {
				return nil, err
			}

			for _, o := range resp.List.Elements.Order {
				orders = append(orders, c.mapOrder(o))
			}

			if resp.List.Meta.NextCursor == "" || len(resp.List.Elements.Order) == 0 {
				break
			}
			cursor = resp.List.Meta.NextCursor
		}
		return orders, nil
	})
}

func (c *WalmartConnector) mapOrder(o walmartOrder) connector.MarketplaceOrder {
	order := connector.MarketplaceOrder{
		ExternalID:    o.PurchaseOrderID,
		CustomerEmail: o.CustomerEmailID,
		Status:        c.deriveOrderStatus(o),
		Currency:      "USD",
		CreatedAt:     time.UnixMilli(o.OrderDate).UTC(),
		// UpdatedAt stays zero: the purchase-order payload carries no
		// modification timestamp.
	}

	if o.ShippingInfo != nil && o.ShippingInfo.PostalAddress != nil {
		addr := o.ShippingInfo.PostalAddress
		order.CustomerName = addr.Name
		order.ShippingAddress = &connector.Address{
			Name:       addr.Name,
			Line1:      addr.Address1,
			Line2:      addr.Address2,
			City:       addr.City,
			Region:     addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
			Phone:      o.ShippingInfo.Phone,
		}
	}

	total := decimal.Zero
	for _, line := range o.OrderLines.OrderLine {
		item := connector.OrderItem{
			SKU:        line.Item.SKU,
			Title:      line.Item.ProductName,
			ExternalID: line.LineNumber,
		}
		if qty, err := strconv.Atoi(line.OrderLineQuantity.Amount); err == nil {
			item.Quantity = qty
		}
		if line.Charges != nil {
			for _, charge := range line.Charges.Charge {
				if strings.EqualFold(charge.ChargeType, "PRODUCT") {
					item.Price = decimal.NewFromFloat(charge.ChargeAmount.Amount)
					order.Currency = charge.ChargeAmount.Currency
				}
				total = total.Add(decimal.NewFromFloat(charge.ChargeAmount.Amount))
			}
		}
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = total
	return order
}

// deriveOrderStatus folds per-line statuses into one canonical order
// status: the least advanced line wins, and the order only counts as
// cancelled when every line is.
func (c *WalmartConnector) deriveOrderStatus(o walmartOrder) connector.OrderStatus {
	progress := map[connector.OrderStatus]int{
		connector.OrderStatusPending:   0,
		connector.OrderStatusConfirmed: 1,
		connector.OrderStatusShipped:   2,
		connector.OrderStatusDelivered: 3,
	}

	lowest := connector.OrderStatus("")
	sawLine := false
	allCancelled := true
	for _, line := range o.OrderLines.OrderLine {
		for _, ls := range line.OrderLineStatuses.OrderLineStatus {
			sawLine = true
			status := c.mapLineStatus(ls.Status)
			if status == connector.OrderStatusCancelled {
				continue
			}
			allCancelled = false
			if lowest == "" || progress[status] < progress[lowest] {
				lowest = status
			}
		}
	}

	if !sawLine {
		return connector.OrderStatusPending
	}
	if allCancelled {
		return connector.OrderStatusCancelled
	}
	return lowest
}

func (c *WalmartConnector) mapLineStatus(status string) connector.OrderStatus {
	switch strings.ToUpper(status) {
	case "CREATED":
		return connector.OrderStatusPending
	case "ACKNOWLEDGED":
		return connector.OrderStatusConfirmed
	case "SHIPPED":
		return connector.OrderStatusShipped
	case "DELIVERED":
		return connector.OrderStatusDelivered
	case "CANCELLED":
		return connector.OrderStatusCancelled
	default:
		c.logger.Warn("Unknown Walmart order line status", zap.String("status", status))
		return connector.OrderStatusPending
	}
}

// UpdateOrderStatus pushes a status change to Walmart: acknowledgement,
// shipping notification or cancellation depending on the target status.
func (c *WalmartConnector) UpdateOrderStatus(ctx context.Context, externalID string, status connector.OrderStatus) *connector.SyncResult {
	if !status.IsValid() {
		return connector.NewSyncFailure(fmt.Sprintf("invalid order status: %s", status), connector.ErrValidation.Error())
	}

	switch status {
	case connector.OrderStatusConfirmed:
		return c.acknowledgeOrder(ctx, externalID)
	case connector.OrderStatusShipped:
		return c.shipOrder(ctx, externalID)
	case connector.OrderStatusCancelled:
		return c.cancelOrder(ctx, externalID)
	default:
		return connector.NewSyncFailure(fmt.Sprintf("walmart does not accept status %s", status))
	}
}

func (c *WalmartConnector) acknowledgeOrder(ctx context.Context, purchaseOrderID string) *connector.SyncResult {
	_, err := retry.Do(ctx, "walmart.acknowledge_order", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPost, "/v3/orders/"+url.PathEscape(purchaseOrderID)+"/acknowledge", nil, nil, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to acknowledge order", err.Error())
	}
	return connector.NewSyncSuccess("order acknowledged", nil)
}

func (c *WalmartConnector) shipOrder(ctx context.Context, purchaseOrderID string) *connector.SyncResult {
	order, err := c.fetchOrder(ctx, purchaseOrderID)
	if err != nil {
		return connector.NewSyncFailure("failed to load order", err.Error())
	}

	shipment := walmartShipmentRequest{}
	for _, line := range order.OrderLines.OrderLine {
		shipment.OrderShipment.OrderLines.OrderLine = append(shipment.OrderShipment.OrderLines.OrderLine, walmartShipmentLine{
			LineNumber: line.LineNumber,
			OrderLineStatuses: walmartShipmentStatuses{
				OrderLineStatus: []walmartShipmentStatus{{
					Status:         "Shipped",
					StatusQuantity: line.OrderLineQuantity,
					TrackingInfo:   &walmartTracking{ShipDateTime: time.Now().UnixMilli(), MethodCode: "Standard"},
				}},
			},
		})
	}

	_, err = retry.Do(ctx, "walmart.ship_order", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPost, "/v3/orders/"+url.PathEscape(purchaseOrderID)+"/shipping", nil, shipment, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to send shipping update", err.Error())
	}
	return connector.NewSyncSuccess("shipping update sent", nil)
}

func (c *WalmartConnector) cancelOrder(ctx context.Context, purchaseOrderID string) *connector.SyncResult {
	order, err := c.fetchOrder(ctx, purchaseOrderID)
	if err != nil {
		return connector.NewSyncFailure("failed to load order", err.Error())
	}

	cancel := walmartCancelRequest{}
	for _, line := range order.OrderLines.OrderLine {
		cancel.OrderCancellation.OrderLines.OrderLine = append(cancel.OrderCancellation.OrderLines.OrderLine, walmartShipmentLine{
			LineNumber: line.LineNumber,
			OrderLineStatuses: walmartShipmentStatuses{
				OrderLineStatus: []walmartShipmentStatus{{
					Status:         "Cancelled",
					StatusQuantity: line.OrderLineQuantity,
				}},
			},
		})
	}

	_, err = retry.Do(ctx, "walmart.cancel_order", c.retryOptions(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPost, "/v3/orders/"+url.PathEscape(purchaseOrderID)+"/cancel", nil, cancel, nil)
	})
	if err != nil {
		return connector.NewSyncFailure("failed to cancel order", err.Error())
	}
	return connector.NewSyncSuccess("order cancelled", nil)
}

func (c *WalmartConnector) fetchOrder(ctx context.Context, purchaseOrderID string) (*walmartOrder, error) {
	return retry.Do(ctx, "walmart.get_order", c.retryOptions(), func(ctx context.Context) (*walmartOrder, error) {
		var out walmartSingleOrderResponse
		if err := c.do(ctx, http.MethodGet, "/v3/orders/"+url.PathEscape(purchaseOrderID), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out.Order, nil
	})
}

// ---------------------------------------------------------------------------
// Batch Operations
// ---------------------------------------------------------------------------

// UpdateInventory puts quantity changes per SKU concurrently, bounded by
// the declared rate limits.
func (c *WalmartConnector) UpdateInventory(ctx context.Context, updates []connector.InventoryUpdate) *connector.SyncResult {
	items := runBatch(ctx, c.tuning.limit(WalmartMarketplaceInfo().RateLimits.RequestsPerSecond), updates, func(ctx context.Context, u connector.InventoryUpdate) connector.ItemResult {
		result := c.putInventory(ctx, u.SKU, u.Quantity)
		if !result.Success {
			return connector.ItemResult{SKU: u.SKU, Error: resultError(result)}
		}
		return connector.ItemResult{SKU: u.SKU, Success: true}
	})
	return connector.NewBatchResult("inventory sync", items)
}

// UpdatePricing puts price changes per SKU concurrently.
func (c *WalmartConnector) UpdatePricing(ctx context.Context, updates []connector.PriceUpdate) *connector.SyncResult {
	items := runBatch(ctx, c.tuning.limit(WalmartMarketplaceInfo().RateLimits.RequestsPerSecond), updates, func(ctx context.Context, u connector.PriceUpdate) connector.ItemResult {
		result := c.putPrice(ctx, u.SKU, u.Price, u.Currency)
		if !result.Success {
			return connector.ItemResult{SKU: u.SKU, Error: resultError(result)}
		}
		return connector.ItemResult{SKU: u.SKU, Success: true}
	})
	return connector.NewBatchResult("pricing sync", items)
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
