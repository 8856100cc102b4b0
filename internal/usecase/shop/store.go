package shop

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
)

// Options carries the optional collaborators of a Store
type Options struct {
	// SessionID tags published events
	SessionID string

	// Publisher receives an event after each committed cart or wishlist change
	Publisher EventPublisher

	// Actor returns the display name attached to published events
	Actor func() string
}

// Store owns the shopping state of one shopper session. Commands are applied
// one at a time; the cart, wishlist and carbon total are written to the slot
// adapter right after each change that touches them.
type Store struct {
	mu     sync.Mutex
	state  domain.AppState
	slots  *slot.Adapter
	opts   Options
	logger *logger.Logger
}

// NewStore creates a store showing products, hydrating the persisted slices
// from slots
func NewStore(ctx context.Context, slots *slot.Adapter, products []domain.Product, log *logger.Logger, opts Options) *Store {
	state := InitialState(products)
	state.Cart = sanitizeCart(slot.Read(ctx, slots, domain.SlotCart, []domain.CartItem{}))
	state.Wishlist = sanitizeWishlist(slot.Read(ctx, slots, domain.SlotWishlist, []domain.Product{}))
	state.TotalCarbonSaved = slot.Read(ctx, slots, domain.SlotCarbonSaved, 0.0)

	return &Store{
		state:  state,
		slots:  slots,
		opts:   opts,
		logger: log,
	}
}

// State returns a snapshot of the current state
func (s *Store) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies cmd and returns a snapshot of the resulting state.
// Commands that reference absent entries leave the state unchanged.
func (s *Store) Dispatch(ctx context.Context, cmd Command) domain.AppState {
	_, next := s.Transact(ctx, func(domain.AppState) []Command {
		return []Command{cmd}
	})
	return next
}

// Transact applies the commands plan derives from the current state, with no
// other command running in between. Each command is persisted and published
// like a Dispatch. It returns snapshots of the state before and after.
func (s *Store) Transact(ctx context.Context, plan func(state domain.AppState) []Command) (before, after domain.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.state
	for _, cmd := range plan(start.Clone()) {
		prev := s.state
		next := Reduce(prev, cmd)
		s.state = next

		s.persist(ctx, prev, next)
		s.publish(cmd, prev, next)
	}

	return start.Clone(), s.state.Clone()
}

func (s *Store) persist(ctx context.Context, prev, next domain.AppState) {
	if !reflect.DeepEqual(prev.Cart, next.Cart) {
		s.slots.Write(ctx, domain.SlotCart, next.Cart)
	}
	if !reflect.DeepEqual(prev.Wishlist, next.Wishlist) {
		s.slots.Write(ctx, domain.SlotWishlist, next.Wishlist)
	}
	if prev.TotalCarbonSaved != next.TotalCarbonSaved {
		s.slots.Write(ctx, domain.SlotCarbonSaved, next.TotalCarbonSaved)
	}
}

func (s *Store) publish(cmd Command, prev, next domain.AppState) {
	event, ok := describe(cmd, prev, next)
	if !ok {
		return
	}

	if event.Type == EventCartSwapped {
		s.logger.WithFields(map[string]interface{}{
			"session_id":     s.opts.SessionID,
			"product_id":     event.ProductID,
			"alternative_id": event.AlternativeID,
			"carbon_delta":   event.CarbonDelta,
		}).Info("Cart line swapped to alternative")
	}

	if s.opts.Publisher == nil {
		return
	}

	event.SessionID = s.opts.SessionID
	event.Timestamp = time.Now()
	event.TotalCarbonSaved = next.TotalCarbonSaved
	if s.opts.Actor != nil {
		event.Actor = s.opts.Actor()
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal %s event", event.Type)
		return
	}

	// Publish in background to avoid blocking the dispatch
	go func() {
		if err := s.opts.Publisher.Publish(context.Background(), EventsSubject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish %s event", event.Type)
		}
	}()
}

// describe reports the event for a committed change, or false when cmd
// changed nothing worth announcing
func describe(cmd Command, prev, next domain.AppState) (Event, bool) {
	cartChanged := !reflect.DeepEqual(prev.Cart, next.Cart)
	wishlistChanged := !reflect.DeepEqual(prev.Wishlist, next.Wishlist)

	switch c := cmd.(type) {
	case AddToCart:
		line, _ := next.CartLine(c.Product.ID)
		return Event{Type: EventCartItemAdded, ProductID: c.Product.ID, Quantity: line.Quantity}, cartChanged
	case RemoveFromCart:
		return Event{Type: EventCartItemRemoved, ProductID: c.ProductID}, cartChanged
	case SetQuantity:
		line, _ := next.CartLine(c.ProductID)
		return Event{Type: EventCartQuantitySet, ProductID: c.ProductID, Quantity: line.Quantity}, cartChanged
	case ClearCart:
		return Event{Type: EventCartCleared}, len(prev.Cart) > 0
	case SwapToAlternative:
		original, found := prev.CartLine(c.OriginalID)
		if !found || !cartChanged {
			return Event{}, false
		}
		delta := CarbonDelta(original.CarbonImpact, c.Alternative.CarbonImpact, original.Quantity)
		return Event{
			Type:          EventCartSwapped,
			ProductID:     c.OriginalID,
			AlternativeID: c.Alternative.ID,
			Quantity:      original.Quantity,
			CarbonDelta:   delta.InexactFloat64(),
		}, true
	case AddToWishlist:
		return Event{Type: EventWishlistItemAdded, ProductID: c.Product.ID}, wishlistChanged
	case RemoveFromWishlist:
		return Event{Type: EventWishlistItemRemoved, ProductID: c.ProductID}, wishlistChanged
	}
	return Event{}, false
}

// sanitizeCart drops stored lines that would break the cart invariants
func sanitizeCart(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func sanitizeWishlist(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
