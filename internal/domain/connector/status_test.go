package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingStatus_IsValid(t *testing.T) {
	valid := []ListingStatus{ListingStatusActive, ListingStatusInactive, ListingStatusPending, ListingStatusError}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, ListingStatus("archived").IsValid())
	assert.False(t, ListingStatus("").IsValid())
}

func TestOrderStatus_IsValid(t *testing.T) {
	valid := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, OrderStatus("returned").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_IsFinal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsFinal())
	assert.True(t, OrderStatusCancelled.IsFinal())
	assert.False(t, OrderStatusPending.IsFinal())
	assert.False(t, OrderStatusConfirmed.IsFinal())
	assert.False(t, OrderStatusShipped.IsFinal())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"confirmed to shipped", OrderStatusConfirmed, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending to shipped skips confirmed", OrderStatusPending, OrderStatusShipped, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, true},
		{"delivered to cancelled forbidden", OrderStatusDelivered, OrderStatusCancelled, false},
		{"backwards shipped to confirmed", OrderStatusShipped, OrderStatusConfirmed, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"same state", OrderStatusShipped, OrderStatusShipped, false},
		{"invalid target", OrderStatusPending, OrderStatus("returned"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
