package shopper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// flakySlotStore fails the next failures reads and counts every read
type flakySlotStore struct {
	*memory.SlotStore

	mu       sync.Mutex
	failures int
	gets     int
}

func (f *flakySlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.gets++
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()

	if fail {
		return nil, errors.New("connection reset by peer")
	}
	return f.SlotStore.Get(ctx, key)
}

func (f *flakySlotStore) reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func newTestRegistry(backend domain.SlotStore, opts Options) *Registry {
	log := logger.New("test")
	return NewRegistry(slot.NewAdapter(backend, "ecocart", log), catalog.MustLoad(), log, opts)
}

func mustOpen(t *testing.T, r *Registry, ctx context.Context, id uuid.UUID) *Shopper {
	t.Helper()
	s, err := r.Open(ctx, id)
	require.NoError(t, err)
	return s
}

// fillCart stores a two-line cart for a new session and returns its ID
func fillCart(t *testing.T, backend domain.SlotStore) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	products := catalog.MustLoad().Products(false)

	s, err := newTestRegistry(backend, Options{}).Create(ctx)
	require.NoError(t, err)
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: products[0]})
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: products[1]})
	require.Len(t, s.Shop.State().Cart, 2)
	return s.ID
}

func TestRegistry_OpenReturnsSameShopper(t *testing.T) {
	registry := newTestRegistry(memory.NewSlotStore(), Options{})
	ctx := context.Background()

	created, err := registry.Create(ctx)
	require.NoError(t, err)
	opened := mustOpen(t, registry, ctx, created.ID)

	assert.Same(t, created, opened)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_ModeSwitchSwapsCatalogNotCart(t *testing.T) {
	ctx := context.Background()
	provider := catalog.MustLoad()
	registry := newTestRegistry(memory.NewSlotStore(), Options{})
	s, err := registry.Create(ctx)
	require.NoError(t, err)

	conventional := provider.Products(false)
	require.Equal(t, conventional, s.Shop.State().Products)

	first := conventional[0]
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: first})
	s.Shop.Dispatch(ctx, shop.AddToWishlist{Product: conventional[1]})
	s.Shop.Dispatch(ctx, shop.SwapToAlternative{OriginalID: first.ID, Alternative: *first.Alternative})
	before := s.Shop.State()

	s.Display.ToggleCatalogMode(ctx)
	after := s.Shop.State()

	assert.Equal(t, provider.Products(true), after.Products)
	assert.Equal(t, before.Cart, after.Cart)
	assert.Equal(t, before.Wishlist, after.Wishlist)
	assert.Equal(t, before.TotalCarbonSaved, after.TotalCarbonSaved)

	s.Display.ToggleCatalogMode(ctx)
	assert.Equal(t, conventional, s.Shop.State().Products)
}

func TestRegistry_HydratesFromBackend(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewSlotStore()
	provider := catalog.MustLoad()

	s, err := newTestRegistry(backend, Options{}).Create(ctx)
	require.NoError(t, err)
	s.Display.ToggleCatalogMode(ctx)
	eco := provider.Products(true)
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: eco[0]})
	_, err = s.Session.Login(ctx, "priya@example.com", "123456")
	require.NoError(t, err)

	restored := mustOpen(t, newTestRegistry(backend, Options{}), ctx, s.ID)

	assert.True(t, restored.Display.Mode().GreenMode)
	assert.Equal(t, eco, restored.Shop.State().Products)
	assert.Equal(t, s.Shop.State().Cart, restored.Shop.State().Cart)
	assert.Equal(t, "Priya Sharma", restored.Session.Current().Name)
	assert.Equal(t, "Priya Sharma", restored.Standing().Name)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(memory.NewSlotStore(), Options{})
	provider := catalog.MustLoad()

	a, err := registry.Create(ctx)
	require.NoError(t, err)
	b, err := registry.Create(ctx)
	require.NoError(t, err)
	a.Shop.Dispatch(ctx, shop.AddToCart{Product: provider.Products(false)[0]})

	assert.Len(t, a.Shop.State().Cart, 1)
	assert.Empty(t, b.Shop.State().Cart)

	registry.Forget(a.ID)
	assert.Equal(t, 1, registry.Len())
	assert.Len(t, mustOpen(t, registry, ctx, a.ID).Shop.State().Cart, 1)
}

func TestRegistry_CancelledFirstOpenKeepsPersistedCart(t *testing.T) {
	backend := memory.NewSlotStore()
	id := fillCart(t, backend)
	products := catalog.MustLoad().Products(false)

	// First request after a restart is abandoned by the client
	registry := newTestRegistry(backend, Options{})
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	s := mustOpen(t, registry, cancelled, id)
	assert.Len(t, s.Shop.State().Cart, 2)

	ctx := context.Background()
	s = mustOpen(t, registry, ctx, id)
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: products[2]})
	assert.Len(t, s.Shop.State().Cart, 3)

	restarted := mustOpen(t, newTestRegistry(backend, Options{}), ctx, id)
	assert.Len(t, restarted.Shop.State().Cart, 3)
}

func TestRegistry_FailedLoadIsNotCached(t *testing.T) {
	backend := &flakySlotStore{SlotStore: memory.NewSlotStore()}
	id := fillCart(t, backend)
	ctx := context.Background()

	backend.mu.Lock()
	backend.failures = 1
	backend.mu.Unlock()

	registry := newTestRegistry(backend, Options{})

	_, err := registry.Open(ctx, id)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, 0, registry.Len())

	s := mustOpen(t, registry, ctx, id)
	assert.Len(t, s.Shop.State().Cart, 2)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_IdleSessionIsEvictedAndReloaded(t *testing.T) {
	ctx := context.Background()
	provider := catalog.MustLoad()
	registry := newTestRegistry(memory.NewSlotStore(), Options{IdleTTL: 50 * time.Millisecond})

	s, err := registry.Create(ctx)
	require.NoError(t, err)
	s.Shop.Dispatch(ctx, shop.AddToCart{Product: provider.Products(false)[0]})
	s.Display.ToggleTheme(ctx)

	assert.Eventually(t, func() bool {
		return registry.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	reloaded := mustOpen(t, registry, ctx, s.ID)
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, s.Shop.State().Cart, reloaded.Shop.State().Cart)
	assert.True(t, reloaded.Display.Mode().Dark)
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(memory.NewSlotStore(), Options{MaxSessions: 2})

	a, err := registry.Create(ctx)
	require.NoError(t, err)
	b, err := registry.Create(ctx)
	require.NoError(t, err)
	mustOpen(t, registry, ctx, a.ID)

	c, err := registry.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, registry.Len())
	assert.True(t, registry.shoppers.Contains(a.ID))
	assert.False(t, registry.shoppers.Contains(b.ID))
	assert.True(t, registry.shoppers.Contains(c.ID))
}

func TestRegistry_ConcurrentOpensShareOneLoad(t *testing.T) {
	backend := &flakySlotStore{SlotStore: memory.NewSlotStore()}
	registry := newTestRegistry(backend, Options{})
	id := uuid.New()

	const callers = 20
	opened := make([]*Shopper, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := registry.Open(context.Background(), id)
			assert.NoError(t, err)
			opened[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range opened[1:] {
		assert.Same(t, opened[0], s)
	}
	// theme, green-mode, user, cart, wishlist, carbon-saved
	assert.Equal(t, 6, backend.reads())
}
