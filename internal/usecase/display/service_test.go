package display

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
)

func newTestStore(backend *memory.SlotStore) *Store {
	adapter := slot.NewAdapter(backend, "ecocart", logger.New("test")).Scope("session-1")
	return NewStore(context.Background(), adapter, logger.New("test"))
}

func TestStore_DefaultsToLightConventional(t *testing.T) {
	store := newTestStore(memory.NewSlotStore())

	assert.Equal(t, Mode{}, store.Mode())
}

func TestStore_TogglesPersist(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewSlotStore()
	store := newTestStore(backend)

	assert.Equal(t, Mode{Dark: true}, store.ToggleTheme(ctx))
	assert.Equal(t, Mode{Dark: true, GreenMode: true}, store.ToggleCatalogMode(ctx))

	restored := newTestStore(backend)
	assert.Equal(t, Mode{Dark: true, GreenMode: true}, restored.Mode())

	assert.Equal(t, Mode{GreenMode: true}, restored.SetTheme(ctx, false))
	assert.Equal(t, Mode{GreenMode: true}, newTestStore(backend).Mode())
}

func TestStore_CatalogListeners(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(memory.NewSlotStore())

	var calls []bool
	store.OnCatalogChange(func(_ context.Context, eco bool) {
		calls = append(calls, eco)
	})

	store.ToggleCatalogMode(ctx)
	store.SetCatalogMode(ctx, true)
	store.ToggleTheme(ctx)
	store.SetCatalogMode(ctx, false)

	assert.Equal(t, []bool{true, false}, calls)
}
