package marketplace

// Wire types for the Walmart Marketplace API. Only the fields the
// connector reads are modelled.

// ---------------------------------------------------------------------------
// Token API
// ---------------------------------------------------------------------------

type walmartTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type walmartTokenDetailResponse struct {
	IsValid  bool     `json:"is_valid"`
	ExpireAt string   `json:"expire_at"`
	Scopes   []string `json:"scopes"`
}

// ---------------------------------------------------------------------------
// Items API
// ---------------------------------------------------------------------------

type walmartItemsResponse struct {
	Items      []walmartItem `json:"ItemResponse"`
	TotalItems int           `json:"totalItems"`
	NextCursor string        `json:"nextCursor"`
}

type walmartItem struct {
	SKU             string        `json:"sku"`
	WPID            string        `json:"wpid"`
	ProductName     string        `json:"productName"`
	Brand           string        `json:"brand"`
	Price           *walmartPrice `json:"price,omitempty"`
	PublishedStatus string        `json:"publishedStatus"`
	LifecycleStatus string        `json:"lifecycleStatus"`
}

type walmartPrice struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// walmartFeedAck acknowledges a feed submission.
type walmartFeedAck struct {
	FeedID string `json:"feedId"`
}

// ---------------------------------------------------------------------------
// Orders API
// ---------------------------------------------------------------------------

type walmartOrdersResponse struct {
	List walmartOrdersList `json:"list"`
}

type walmartOrdersList struct {
	Meta     walmartListMeta      `json:"meta"`
	Elements walmartOrderElements `json:"elements"`
}

type walmartListMeta struct {
	TotalCount int    `json:"totalCount"`
	NextCursor string `json:"nextCursor"`
}

type walmartOrderElements struct {
	Order []walmartOrder `json:"order"`
}

type walmartSingleOrderResponse struct {
	Order walmartOrder `json:"order"`
}

type walmartOrder struct {
	PurchaseOrderID string               `json:"purchaseOrderId"`
	CustomerOrderID string               `json:"customerOrderId"`
	CustomerEmailID string               `json:"customerEmailId"`
	OrderDate       int64                `json:"orderDate"`
	ShippingInfo    *walmartShippingInfo `json:"shippingInfo,omitempty"`
	OrderLines      walmartOrderLines    `json:"orderLines"`
}

type walmartShippingInfo struct {
	Phone         string                `json:"phone"`
	PostalAddress *walmartPostalAddress `json:"postalAddress,omitempty"`
}

type walmartPostalAddress struct {
	Name       string `json:"name"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type walmartOrderLines struct {
	OrderLine []walmartOrderLine `json:"orderLine"`
}

type walmartOrderLine struct {
	LineNumber        string                   `json:"lineNumber"`
	Item              walmartOrderLineItem     `json:"item"`
	Charges           *walmartCharges          `json:"charges,omitempty"`
	OrderLineQuantity walmartQuantity          `json:"orderLineQuantity"`
	OrderLineStatuses walmartOrderLineStatuses `json:"orderLineStatuses"`
}

type walmartOrderLineItem struct {
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`
}

type walmartCharges struct {
	Charge []walmartCharge `json:"charge"`
}

type walmartCharge struct {
	ChargeType   string       `json:"chargeType"`
	ChargeAmount walmartPrice `json:"chargeAmount"`
}

type walmartQuantity struct {
	UnitOfMeasurement string `json:"unitOfMeasurement"`
	Amount            string `json:"amount"`
}

type walmartOrderLineStatuses struct {
	OrderLineStatus []walmartOrderLineStatus `json:"orderLineStatus"`
}

type walmartOrderLineStatus struct {
	Status         string          `json:"status"`
	StatusQuantity walmartQuantity `json:"statusQuantity"`
}

// walmartShipmentRequest is the shipping-update request body.
type walmartShipmentRequest struct {
	OrderShipment walmartOrderShipment `json:"orderShipment"`
}

type walmartOrderShipment struct {
	OrderLines walmartShipmentLines `json:"orderLines"`
}

type walmartShipmentLines struct {
	OrderLine []walmartShipmentLine `json:"orderLine"`
}

type walmartShipmentLine struct {
	LineNumber        string                  `json:"lineNumber"`
	OrderLineStatuses walmartShipmentStatuses `json:"orderLineStatuses"`
}

type walmartShipmentStatuses struct {
	OrderLineStatus []walmartShipmentStatus `json:"orderLineStatus"`
}

type walmartShipmentStatus struct {
	Status         string           `json:"status"`
	StatusQuantity walmartQuantity  `json:"statusQuantity"`
	TrackingInfo   *walmartTracking `json:"trackingInfo,omitempty"`
}

type walmartTracking struct {
	ShipDateTime int64 `json:"shipDateTime"`
	CarrierName  struct {
		Carrier string `json:"carrier"`
	} `json:"carrierName"`
	MethodCode     string `json:"methodCode"`
	TrackingNumber string `json:"trackingNumber"`
}

// walmartCancelRequest is the order-cancellation request body.
type walmartCancelRequest struct {
	OrderCancellation walmartOrderCancellation `json:"orderCancellation"`
}

type walmartOrderCancellation struct {
	OrderLines walmartShipmentLines `json:"orderLines"`
}

// ---------------------------------------------------------------------------
// Inventory & Price APIs
// ---------------------------------------------------------------------------

type walmartInventory struct {
	SKU      string              `json:"sku"`
	Quantity walmartInventoryQty `json:"quantity"`
}

type walmartInventoryQty struct {
	Unit   string `json:"unit"`
	Amount int    `json:"amount"`
}

type walmartPriceUpdate struct {
	SKU     string              `json:"sku"`
	Pricing []walmartPriceEntry `json:"pricing"`
}

type walmartPriceEntry struct {
	CurrentPriceType string       `json:"currentPriceType"`
	CurrentPrice     walmartMoney `json:"currentPrice"`
}

type walmartMoney struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// walmartItemAck acknowledges an inventory or price update.
type walmartItemAck struct {
	SKU  string `json:"sku"`
	Mart string `json:"mart"`
}
