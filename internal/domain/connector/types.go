package connector

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ---------------------------------------------------------------------------
// Canonical Listing Model
// ---------------------------------------------------------------------------

// Listing validation errors
var (
	ErrListingMissingSKU      = errors.New("connector: listing SKU is required")
	ErrListingMissingTitle    = errors.New("connector: listing title is required")
	ErrListingNegativeQty     = errors.New("connector: listing quantity must not be negative")
	ErrListingNegativePrice   = errors.New("connector: listing price must not be negative")
	ErrListingInvalidCurrency = errors.New("connector: listing currency is not a valid ISO 4217 code")
)

// ProductListing is the marketplace-agnostic representation of a sellable
// item. SKU is the tenant-local identity across all marketplaces; ExternalID
// is assigned by the marketplace and is empty until the first successful
// create.
type ProductListing struct {
	// ID is the caller-assigned identifier for this listing
	ID string
	// SKU is the tenant-scoped unique stock keeping unit
	SKU string
	// Title is the listing title shown to buyers
	Title string
	// Description is the long-form listing description
	Description string
	// Price is the selling price in Currency units
	Price decimal.Decimal
	// Currency is the ISO 4217 currency code for Price
	Currency string
	// Quantity is the available stock quantity (never negative)
	Quantity int
	// Status is the canonical listing state
	Status ListingStatus
	// ExternalID is the marketplace-assigned identifier (ASIN, eBay
	// listingId, Walmart WPID); empty before the listing exists remotely
	ExternalID string
	// Attributes carries marketplace-agnostic key/value attributes
	Attributes map[string]string
	// Images contains image URLs in display order
	Images []string
	// Category is the marketplace category hint
	Category string
	// Brand is the product brand
	Brand string
}

// Validate checks the invariants a listing must satisfy before it can be
// sent to any marketplace.
func (l *ProductListing) Validate() error {
	if l.SKU == "" {
		return ErrListingMissingSKU
	}
	if l.Title == "" {
		return ErrListingMissingTitle
	}
	if l.Quantity < 0 {
		return ErrListingNegativeQty
	}
	if l.Price.IsNegative() {
		return ErrListingNegativePrice
	}
	if err := ValidateCurrency(l.Currency); err != nil {
		return err
	}
	return nil
}

// ValidateCurrency reports whether code is a well-formed ISO 4217 currency
// code.
func ValidateCurrency(code string) error {
	if code == "" {
		return ErrListingInvalidCurrency
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: %q", ErrListingInvalidCurrency, code)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Canonical Order Model
// ---------------------------------------------------------------------------

// MarketplaceOrder is the canonical representation of an order pulled from a
// marketplace.
type MarketplaceOrder struct {
	// ID is the caller-assigned identifier (empty for freshly pulled orders)
	ID string
	// ExternalID is the marketplace order identifier
	ExternalID string
	// Status is the canonical order state
	Status OrderStatus
	// CustomerEmail is the buyer's email when the marketplace exposes it
	CustomerEmail string
	// CustomerName is the buyer's name when the marketplace exposes it
	CustomerName string
	// TotalAmount is the order total in Currency units
	TotalAmount decimal.Decimal
	// Currency is the ISO 4217 currency code for TotalAmount
	Currency string
	// Items contains the order line items
	Items []OrderItem
	// ShippingAddress is the delivery address, when available
	ShippingAddress *Address
	// BillingAddress is the billing address, when available
	BillingAddress *Address
	// CreatedAt is when the order was created on the marketplace
	CreatedAt time.Time
	// UpdatedAt is when the order was last updated on the marketplace
	UpdatedAt time.Time
}

// OrderItem is a single line item in a marketplace order.
type OrderItem struct {
	// SKU is the tenant-local stock keeping unit
	SKU string
	// Title is the item title as sold
	Title string
	// Quantity is the ordered quantity (always positive)
	Quantity int
	// Price is the unit price
	Price decimal.Decimal
	// ExternalID is the marketplace line-item identifier, when assigned
	ExternalID string
}

// Address is a postal address attached to an order.
type Address struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
	Phone      string
}

// ---------------------------------------------------------------------------
// Partial-Update DTOs
// ---------------------------------------------------------------------------

// InventoryUpdate carries a quantity change for one SKU. ExternalID is set
// for marketplaces that require their own identifier on mutation.
type InventoryUpdate struct {
	SKU        string
	ExternalID string
	Quantity   int
}

// PriceUpdate carries a price change for one SKU. Currency must be
// consistent with the listing's currency.
type PriceUpdate struct {
	SKU        string
	ExternalID string
	Price      decimal.Decimal
	Currency   string
}

// ListingUpdate carries the fields to change on an existing listing. Nil
// pointers mean "leave unchanged".
type ListingUpdate struct {
	SKU         string
	ExternalID  string
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Currency    string
	Quantity    *int
	Status      *ListingStatus
}

// ---------------------------------------------------------------------------
// SyncResult
// ---------------------------------------------------------------------------

// SyncResult is the uniform envelope every mutating connector operation
// returns instead of an error, so batch callers can keep processing
// siblings after a partial failure.
type SyncResult struct {
	// ID correlates this result in logs and API responses
	ID uuid.UUID
	// Success is true only when every affected item succeeded
	Success bool
	// Message is a human-readable summary
	Message string
	// Data carries operation-specific payload; batch operations store
	// []ItemResult here
	Data any
	// Errors lists the failures contributing to Success=false
	Errors []string
	// Timestamp is when the operation completed
	Timestamp time.Time
}

// ItemResult is the per-item outcome of a batch operation.
type ItemResult struct {
	// SKU identifies the item within the batch
	SKU string
	// Success reports whether this item's request succeeded
	Success bool
	// Error describes the failure when Success is false
	Error string
	// ExternalID is the marketplace identifier touched, when known
	ExternalID string
}

// NewSyncSuccess builds a successful SyncResult.
func NewSyncSuccess(message string, data any) *SyncResult {
	return &SyncResult{
		ID:        uuid.New(),
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewSyncFailure builds a failed SyncResult.
func NewSyncFailure(message string, errs ...string) *SyncResult {
	return &SyncResult{
		ID:        uuid.New(),
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now(),
	}
}

// NewBatchResult aggregates per-item outcomes into a SyncResult. The result
// is successful only when every item succeeded; item failures are surfaced
// both in Data and in Errors.
func NewBatchResult(operation string, items []ItemResult) *SyncResult {
	failed := 0
	errs := make([]string, 0)
	for _, item := range items {
		if !item.Success {
			failed++
			errs = append(errs, fmt.Sprintf("%s: %s", item.SKU, item.Error))
		}
	}

	result := &SyncResult{
		ID:        uuid.New(),
		Success:   failed == 0,
		Message:   fmt.Sprintf("%s: %d succeeded, %d failed", operation, len(items)-failed, failed),
		Data:      items,
		Timestamp: time.Now(),
	}
	if failed > 0 {
		result.Errors = errs
	}
	return result
}
