package shop

import (
	"context"
	"time"
)

// EventsSubject is the subject shop events are published on
const EventsSubject = "ecocart.events"

// Event types published after a committed change
const (
	EventCartItemAdded       = "cart.item_added"
	EventCartItemRemoved     = "cart.item_removed"
	EventCartQuantitySet     = "cart.quantity_set"
	EventCartCleared         = "cart.cleared"
	EventCartSwapped         = "cart.swapped"
	EventWishlistItemAdded   = "wishlist.item_added"
	EventWishlistItemRemoved = "wishlist.item_removed"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Event describes a committed cart or wishlist change
type Event struct {
	Type             string    `json:"type"`
	SessionID        string    `json:"session_id"`
	Actor            string    `json:"actor,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	ProductID        string    `json:"product_id,omitempty"`
	AlternativeID    string    `json:"alternative_id,omitempty"`
	Quantity         int       `json:"quantity,omitempty"`
	CarbonDelta      float64   `json:"carbon_delta,omitempty"`
	TotalCarbonSaved float64   `json:"total_carbon_saved"`
}
