package connector

// ---------------------------------------------------------------------------
// ListingStatus
// ---------------------------------------------------------------------------

// ListingStatus represents the canonical state of a product listing.
type ListingStatus string

const (
	// ListingStatusActive indicates the listing is live and purchasable
	ListingStatusActive ListingStatus = "active"
	// ListingStatusInactive indicates the listing exists but is not for sale
	ListingStatusInactive ListingStatus = "inactive"
	// ListingStatusPending indicates the marketplace is still processing the listing
	ListingStatusPending ListingStatus = "pending"
	// ListingStatusError indicates the marketplace rejected the listing
	ListingStatusError ListingStatus = "error"
)

// IsValid returns true if the status is one of the canonical listing states.
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusActive, ListingStatusInactive, ListingStatusPending, ListingStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of ListingStatus.
func (s ListingStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus represents the canonical order state machine:
// pending → confirmed → shipped → delivered, with cancelled reachable from
// any non-terminal state.
type OrderStatus string

const (
	// OrderStatusPending indicates the order is awaiting confirmation/payment
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed indicates the order is paid and awaiting shipment
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped indicates at least one shipment is on its way
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the buyer
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid returns true if the status is one of the canonical order states.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// rank orders the forward progression of the state machine.
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusConfirmed:
		return 1
	case OrderStatusShipped:
		return 2
	case OrderStatusDelivered:
		return 3
	default:
		return -1
	}
}

// CanTransitionTo reports whether the canonical state machine permits moving
// from s to next. Forward moves along pending → confirmed → shipped →
// delivered are allowed; cancellation is allowed from any non-terminal
// state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	if next == OrderStatusCancelled {
		return !s.IsFinal()
	}
	if s == OrderStatusCancelled {
		return false
	}
	return next.rank() > s.rank()
}
