package marketplace

// Wire types for the Amazon Selling Partner API. Only the fields the
// connector reads are modelled.

// ---------------------------------------------------------------------------
// Login with Amazon
// ---------------------------------------------------------------------------

// amazonTokenResponse is the LWA token endpoint response.
type amazonTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ---------------------------------------------------------------------------
// Listings Items API (2021-08-01)
// ---------------------------------------------------------------------------

type amazonListingsSearchResponse struct {
	NumberOfResults int                 `json:"numberOfResults"`
	Pagination      *amazonPagination   `json:"pagination,omitempty"`
	Items           []amazonListingItem `json:"items"`
}

type amazonPagination struct {
	NextToken string `json:"nextToken"`
}

type amazonListingItem struct {
	SKU         string                          `json:"sku"`
	Summaries   []amazonListingSummary          `json:"summaries"`
	Offers      []amazonListingOffer            `json:"offers"`
	Fulfillment []amazonFulfillmentAvailability `json:"fulfillmentAvailability"`
}

type amazonListingSummary struct {
	MarketplaceID string           `json:"marketplaceId"`
	ASIN          string           `json:"asin"`
	ProductType   string           `json:"productType"`
	ItemName      string           `json:"itemName"`
	Status        []string         `json:"status"`
	MainImage     *amazonMainImage `json:"mainImage,omitempty"`
}

type amazonMainImage struct {
	Link string `json:"link"`
}

type amazonListingOffer struct {
	MarketplaceID string      `json:"marketplaceId"`
	OfferType     string      `json:"offerType"`
	Price         amazonMoney `json:"price"`
}

type amazonFulfillmentAvailability struct {
	FulfillmentChannelCode string `json:"fulfillmentChannelCode"`
	Quantity               int    `json:"quantity"`
}

type amazonMoney struct {
	CurrencyCode string `json:"currencyCode"`
	Amount       string `json:"amount"`
}

// amazonListingSubmission is the PUT/PATCH request body for a listings item.
type amazonListingSubmission struct {
	ProductType string         `json:"productType"`
	Patches     []amazonPatch  `json:"patches,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type amazonPatch struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value []any  `json:"value"`
}

// amazonSubmissionResponse acknowledges a listings item submission.
type amazonSubmissionResponse struct {
	SKU          string        `json:"sku"`
	Status       string        `json:"status"`
	SubmissionID string        `json:"submissionId"`
	Issues       []amazonIssue `json:"issues"`
}

type amazonIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ---------------------------------------------------------------------------
// Orders API (v0)
// ---------------------------------------------------------------------------

type amazonOrdersResponse struct {
	Payload amazonOrdersPayload `json:"payload"`
}

type amazonOrdersPayload struct {
	Orders    []amazonOrder `json:"Orders"`
	NextToken string        `json:"NextToken"`
}

type amazonOrder struct {
	AmazonOrderID      string            `json:"AmazonOrderId"`
	OrderStatus        string            `json:"OrderStatus"`
	PurchaseDate       string            `json:"PurchaseDate"`
	LastUpdateDate     string            `json:"LastUpdateDate"`
	OrderTotal         *amazonOrderMoney `json:"OrderTotal,omitempty"`
	BuyerInfo          *amazonBuyerInfo  `json:"BuyerInfo,omitempty"`
	ShippingAddress    *amazonAddress    `json:"ShippingAddress,omitempty"`
	FulfillmentChannel string            `json:"FulfillmentChannel"`
}

type amazonOrderMoney struct {
	CurrencyCode string `json:"CurrencyCode"`
	Amount       string `json:"Amount"`
}

type amazonBuyerInfo struct {
	BuyerEmail string `json:"BuyerEmail"`
	BuyerName  string `json:"BuyerName"`
}

type amazonAddress struct {
	Name          string `json:"Name"`
	AddressLine1  string `json:"AddressLine1"`
	AddressLine2  string `json:"AddressLine2"`
	City          string `json:"City"`
	StateOrRegion string `json:"StateOrRegion"`
	PostalCode    string `json:"PostalCode"`
	CountryCode   string `json:"CountryCode"`
}

type amazonOrderItemsResponse struct {
	Payload amazonOrderItemsPayload `json:"payload"`
}

type amazonOrderItemsPayload struct {
	OrderItems []amazonOrderItem `json:"OrderItems"`
	NextToken  string            `json:"NextToken"`
}

type amazonOrderItem struct {
	ASIN            string            `json:"ASIN"`
	SellerSKU       string            `json:"SellerSKU"`
	OrderItemID     string            `json:"OrderItemId"`
	Title           string            `json:"Title"`
	QuantityOrdered int               `json:"QuantityOrdered"`
	ItemPrice       *amazonOrderMoney `json:"ItemPrice,omitempty"`
}

// amazonShipmentConfirmation is the shipment confirmation request body.
type amazonShipmentConfirmation struct {
	MarketplaceID string `json:"marketplaceId"`
	PackageDetail struct {
		PackageReferenceID string `json:"packageReferenceId"`
		ShipDate           string `json:"shipDate"`
	} `json:"packageDetail"`
}

// ---------------------------------------------------------------------------
// Sellers API
// ---------------------------------------------------------------------------

type amazonParticipationsResponse struct {
	Payload []amazonParticipation `json:"payload"`
}

type amazonParticipation struct {
	Marketplace struct {
		ID          string `json:"id"`
		CountryCode string `json:"countryCode"`
	} `json:"marketplace"`
	Participation struct {
		IsParticipating bool `json:"isParticipating"`
	} `json:"participation"`
}
