package marketplace

// Wire types for the eBay Sell APIs. Only the fields the connector reads
// are modelled.

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

type ebayTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ---------------------------------------------------------------------------
// Sell Inventory API
// ---------------------------------------------------------------------------

type ebayInventoryItemsResponse struct {
	Total          int                 `json:"total"`
	Size           int                 `json:"size"`
	Limit          int                 `json:"limit"`
	Next           string              `json:"next"`
	InventoryItems []ebayInventoryItem `json:"inventoryItems"`
}

type ebayInventoryItem struct {
	SKU          string            `json:"sku"`
	Product      *ebayProduct      `json:"product,omitempty"`
	Availability *ebayAvailability `json:"availability,omitempty"`
}

type ebayProduct struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Brand       string              `json:"brand,omitempty"`
	ImageURLs   []string            `json:"imageUrls,omitempty"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
}

type ebayAvailability struct {
	ShipToLocationAvailability *ebayShipToLocation `json:"shipToLocationAvailability,omitempty"`
}

type ebayShipToLocation struct {
	Quantity int `json:"quantity"`
}

type ebayOffersResponse struct {
	Offers []ebayOffer `json:"offers"`
}

type ebayOffer struct {
	OfferID        string            `json:"offerId"`
	SKU            string            `json:"sku"`
	MarketplaceID  string            `json:"marketplaceId"`
	Format         string            `json:"format,omitempty"`
	Status         string            `json:"status"`
	CategoryID     string            `json:"categoryId,omitempty"`
	Listing        *ebayOfferListing `json:"listing,omitempty"`
	PricingSummary *ebayPricingOffer `json:"pricingSummary,omitempty"`
}

type ebayOfferListing struct {
	ListingID string `json:"listingId"`
}

type ebayPricingOffer struct {
	Price ebayAmount `json:"price"`
}

type ebayAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ebayBulkPriceQuantityRequest is the bulk_update_price_quantity request
// body; at most 25 entries per call.
type ebayBulkPriceQuantityRequest struct {
	Requests []ebayPriceQuantity `json:"requests"`
}

type ebayPriceQuantity struct {
	SKU                        string                `json:"sku"`
	ShipToLocationAvailability *ebayShipToLocation   `json:"shipToLocationAvailability,omitempty"`
	Offers                     []ebayOfferPriceEntry `json:"offers,omitempty"`
}

type ebayOfferPriceEntry struct {
	OfferID string     `json:"offerId"`
	Price   ebayAmount `json:"price"`
}

type ebayBulkPriceQuantityResponse struct {
	Responses []ebayBulkEntryResponse `json:"responses"`
}

type ebayBulkEntryResponse struct {
	StatusCode int         `json:"statusCode"`
	SKU        string      `json:"sku"`
	OfferID    string      `json:"offerId"`
	Errors     []ebayError `json:"errors"`
}

type ebayError struct {
	ErrorID  int    `json:"errorId"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// ---------------------------------------------------------------------------
// Sell Fulfillment API
// ---------------------------------------------------------------------------

type ebayOrdersResponse struct {
	Total  int         `json:"total"`
	Next   string      `json:"next"`
	Orders []ebayOrder `json:"orders"`
}

type ebayOrder struct {
	OrderID                      string                 `json:"orderId"`
	CreationDate                 string                 `json:"creationDate"`
	LastModifiedDate             string                 `json:"lastModifiedDate"`
	OrderFulfillmentStatus       string                 `json:"orderFulfillmentStatus"`
	CancelStatus                 *ebayCancelStatus      `json:"cancelStatus,omitempty"`
	PricingSummary               *ebayOrderPricing      `json:"pricingSummary,omitempty"`
	Buyer                        *ebayBuyer             `json:"buyer,omitempty"`
	LineItems                    []ebayLineItem         `json:"lineItems"`
	FulfillmentStartInstructions []ebayFulfillmentStart `json:"fulfillmentStartInstructions"`
}

type ebayCancelStatus struct {
	CancelState string `json:"cancelState"`
}

type ebayOrderPricing struct {
	Total ebayAmount `json:"total"`
}

type ebayBuyer struct {
	Username string `json:"username"`
}

type ebayLineItem struct {
	LineItemID string      `json:"lineItemId"`
	SKU        string      `json:"sku"`
	Title      string      `json:"title"`
	Quantity   int         `json:"quantity"`
	Total      *ebayAmount `json:"total,omitempty"`
}

type ebayFulfillmentStart struct {
	ShippingStep *ebayShippingStep `json:"shippingStep,omitempty"`
}

type ebayShippingStep struct {
	ShipTo *ebayShipTo `json:"shipTo,omitempty"`
}

type ebayShipTo struct {
	FullName       string              `json:"fullName"`
	Email          string              `json:"email"`
	ContactAddress *ebayContactAddress `json:"contactAddress,omitempty"`
	PrimaryPhone   *ebayPhone          `json:"primaryPhone,omitempty"`
}

type ebayContactAddress struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	CountryCode     string `json:"countryCode"`
}

type ebayPhone struct {
	PhoneNumber string `json:"phoneNumber"`
}

// ebayShippingFulfillment is the shipping_fulfillment creation request.
type ebayShippingFulfillment struct {
	LineItems   []ebayFulfillmentLine `json:"lineItems"`
	ShippedDate string                `json:"shippedDate,omitempty"`
}

type ebayFulfillmentLine struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}

// ---------------------------------------------------------------------------
// Sell Account API
// ---------------------------------------------------------------------------

type ebayPrivilegeResponse struct {
	SellingLimit *struct {
		Amount   *ebayAmount `json:"amount,omitempty"`
		Quantity int         `json:"quantity"`
	} `json:"sellingLimit,omitempty"`
}
