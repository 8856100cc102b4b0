package domain

import "context"

// Slot names of the per-session persisted values
const (
	SlotCart        = "cart"
	SlotWishlist    = "wishlist"
	SlotCarbonSaved = "carbon-saved"
	SlotTheme       = "theme"
	SlotGreenMode   = "green-mode"
	SlotUser        = "user"
)

// SlotStore is a durable key-value backend holding raw slot contents
type SlotStore interface {
	// Get returns the stored bytes for key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous content
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// StandingRepository stores live leaderboard standings per shopper session
type StandingRepository interface {
	// Upsert records the latest standing of a session
	Upsert(ctx context.Context, entry *LeaderboardEntry) error

	// Top returns the highest standings ordered by carbon saved
	Top(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}
