package shopper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/display"
	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/session"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// Shopper bundles the stores of one shopper session
type Shopper struct {
	ID      uuid.UUID
	Shop    *shop.Store
	Session *session.Store
	Display *display.Store
}

const (
	defaultIdleTTL     = 30 * time.Minute
	defaultMaxSessions = 10000
	defaultLoadTimeout = 5 * time.Second
)

// Options configures the stores a Registry builds
type Options struct {
	// LoginDelay is the artificial latency of login and register
	LoginDelay time.Duration

	// Publisher receives shop events. May be nil.
	Publisher shop.EventPublisher

	// IdleTTL evicts a session that has not been opened for this long.
	// Defaults to 30 minutes.
	IdleTTL time.Duration

	// MaxSessions bounds the cached sessions; the least recently used one is
	// evicted first. Defaults to 10000.
	MaxSessions int

	// LoadTimeout bounds hydrating a session from the slot backend.
	// Defaults to 5 seconds.
	LoadTimeout time.Duration
}

// Registry caches recently used shoppers. Evicted sessions are rebuilt from
// the slot backend on their next use, so state survives both eviction and
// restarts.
type Registry struct {
	shoppers *expirable.LRU[uuid.UUID, *Shopper]
	loads    singleflight.Group
	slots    *slot.Adapter
	catalog  *catalog.Provider
	opts     Options
	logger   *logger.Logger
}

// NewRegistry creates a registry storing every session under slots
func NewRegistry(slots *slot.Adapter, provider *catalog.Provider, log *logger.Logger, opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}

	onEvict := func(id uuid.UUID, _ *Shopper) {
		log.Debugf("Evicted shopper session %s from cache", id)
	}

	return &Registry{
		shoppers: expirable.NewLRU[uuid.UUID, *Shopper](opts.MaxSessions, onEvict, opts.IdleTTL),
		slots:    slots,
		catalog:  provider,
		opts:     opts,
		logger:   log,
	}
}

// Create starts a new shopper session with a fresh ID
func (r *Registry) Create(ctx context.Context) (*Shopper, error) {
	return r.Open(ctx, uuid.New())
}

// Open returns the shopper for id, hydrating it from the slot backend when it
// is not cached. A session whose slots could not be read is not cached and
// Open fails with domain.ErrUnavailable, so the next call retries the load.
func (r *Registry) Open(ctx context.Context, id uuid.UUID) (*Shopper, error) {
	if s, ok := r.cached(id); ok {
		return s, nil
	}

	v, err, _ := r.loads.Do(id.String(), func() (interface{}, error) {
		if s, ok := r.shoppers.Get(id); ok {
			return s, nil
		}
		s, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		r.shoppers.Add(id, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Shopper), nil
}

// Forget drops the in-memory stores of a session. Persisted slots are kept.
func (r *Registry) Forget(id uuid.UUID) {
	r.shoppers.Remove(id)
}

// Len returns the number of cached sessions
func (r *Registry) Len() int {
	return r.shoppers.Len()
}

// cached returns a cached shopper and restarts its idle timer
func (r *Registry) cached(id uuid.UUID) (*Shopper, bool) {
	s, ok := r.shoppers.Get(id)
	if ok {
		r.shoppers.Add(id, s)
	}
	return s, ok
}

// load hydrates a session. The load is detached from the caller's
// cancellation so an abandoned request cannot leave a half-read session.
func (r *Registry) load(ctx context.Context, id uuid.UUID) (*Shopper, error) {
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.LoadTimeout)
	defer cancel()

	slots := r.slots.Scope(id.String()).Tracked()
	s := r.build(loadCtx, slots, id)
	if err := slots.ReadErr(); err != nil {
		r.logger.With("session_id", id.String()).Warnf("Failed to load shopper session, not caching it: %v", err)
		return nil, fmt.Errorf("load session %s: %w: %w", id, domain.ErrUnavailable, err)
	}
	return s, nil
}

func (r *Registry) build(ctx context.Context, slots *slot.Adapter, id uuid.UUID) *Shopper {
	log := r.logger.With("session_id", id.String())

	displayStore := display.NewStore(ctx, slots, log)
	sessionStore := session.NewStore(ctx, slots, log, session.Options{Delay: r.opts.LoginDelay})
	shopStore := shop.NewStore(ctx, slots, r.catalog.Products(displayStore.Mode().GreenMode), log, shop.Options{
		SessionID: id.String(),
		Publisher: r.opts.Publisher,
		Actor:     sessionStore.Name,
	})

	displayStore.OnCatalogChange(func(ctx context.Context, eco bool) {
		shopStore.Dispatch(ctx, shop.SetProducts{Products: r.catalog.Products(eco)})
	})

	return &Shopper{
		ID:      id,
		Shop:    shopStore,
		Session: sessionStore,
		Display: displayStore,
	}
}

// Standing returns the live leaderboard entry of the shopper
func (s *Shopper) Standing() domain.LeaderboardEntry {
	state := s.Shop.State()
	return gamification.Standing(s.ID.String(), s.Session.Current(), state.TotalCarbonSaved)
}
