// Package slot persists named per-session values (cart, wishlist, carbon
// total, display toggles, user) into a domain.SlotStore backend.
//
// Persistence is advisory: reads fall back to caller-supplied defaults and
// writes never report failure to the caller.
package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
)

// SchemaVersion tags every stored slot. Slots carrying another version are
// treated like corrupt content.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// readFailures remembers the first backend error seen by Read
type readFailures struct {
	mu  sync.Mutex
	err error
}

func (f *readFailures) record(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = fmt.Errorf("read slot %s: %w", key, err)
	}
}

// Adapter reads and writes slots under a key namespace
type Adapter struct {
	store     domain.SlotStore
	namespace string
	logger    *logger.Logger
	failures  *readFailures
}

// NewAdapter creates an adapter whose keys start with prefix
func NewAdapter(store domain.SlotStore, prefix string, log *logger.Logger) *Adapter {
	return &Adapter{
		store:     store,
		namespace: prefix,
		logger:    log,
	}
}

// Scope returns an adapter for a child namespace sharing the same backend
func (a *Adapter) Scope(name string) *Adapter {
	return &Adapter{
		store:     a.store,
		namespace: a.Key(name),
		logger:    a.logger.With("slot_namespace", a.Key(name)),
		failures:  a.failures,
	}
}

// Tracked returns a copy of the adapter that remembers backend read
// failures. Reads still fall back to their defaults; ReadErr reports whether
// any of them did so because the backend failed.
func (a *Adapter) Tracked() *Adapter {
	c := *a
	c.failures = &readFailures{}
	return &c
}

// ReadErr returns the first backend failure seen by Read on a tracked
// adapter. Missing, corrupt and foreign-version slots are not failures.
func (a *Adapter) ReadErr() error {
	if a.failures == nil {
		return nil
	}
	a.failures.mu.Lock()
	defer a.failures.mu.Unlock()
	return a.failures.err
}

// Key returns the backend key of a slot
func (a *Adapter) Key(slot string) string {
	if a.namespace == "" {
		return slot
	}
	return a.namespace + ":" + slot
}

// Read loads the slot into a value of type T, returning def when the slot is
// absent, unreadable or written by another schema version.
func Read[T any](ctx context.Context, a *Adapter, slot string, def T) T {
	key := a.Key(slot)

	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logger.Warnf("Failed to read slot %s, using default: %v", key, err)
			if a.failures != nil {
				a.failures.record(key, err)
			}
		}
		return def
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		a.logger.Warnf("Corrupt slot %s, using default: %v", key, err)
		return def
	}
	if env.Version != SchemaVersion {
		a.logger.Warnf("Slot %s has schema version %d, want %d; using default", key, env.Version, SchemaVersion)
		return def
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		a.logger.Warnf("Corrupt slot %s payload, using default: %v", key, err)
		return def
	}

	return value
}

// Write stores value in the slot. Failures are logged and swallowed.
func (a *Adapter) Write(ctx context.Context, slot string, value interface{}) {
	key := a.Key(slot)

	raw, err := encode(value)
	if err != nil {
		a.logger.Warnf("Failed to encode slot %s: %v", key, err)
		return
	}

	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.Warnf("Failed to write slot %s: %v", key, err)
	}
}

// Delete clears the slot. Failures are logged and swallowed.
func (a *Adapter) Delete(ctx context.Context, slot string) {
	key := a.Key(slot)
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Warnf("Failed to delete slot %s: %v", key, err)
	}
}

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal slot data: %w", err)
	}
	return json.Marshal(envelope{Version: SchemaVersion, Data: data})
}
