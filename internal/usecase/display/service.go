package display

import (
	"context"
	"sync"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
)

// Mode is the display configuration of a session
type Mode struct {
	Dark      bool `json:"dark"`
	GreenMode bool `json:"green_mode"`
}

// CatalogListener is called with the new catalog mode after it changes
type CatalogListener func(ctx context.Context, eco bool)

// Store holds the theme and catalog mode toggles of one shopper session
type Store struct {
	mu        sync.Mutex
	mode      Mode
	listeners []CatalogListener
	slots     *slot.Adapter
	logger    *logger.Logger
}

// NewStore creates a display store, restoring the persisted toggles
func NewStore(ctx context.Context, slots *slot.Adapter, log *logger.Logger) *Store {
	return &Store{
		mode: Mode{
			Dark:      slot.Read(ctx, slots, domain.SlotTheme, false),
			GreenMode: slot.Read(ctx, slots, domain.SlotGreenMode, false),
		},
		slots:  slots,
		logger: log,
	}
}

// Mode returns the current toggles
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// OnCatalogChange registers a listener for catalog mode changes
func (s *Store) OnCatalogChange(l CatalogListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// ToggleTheme flips dark mode
func (s *Store) ToggleTheme(ctx context.Context) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTheme(ctx, !s.mode.Dark)
}

// SetTheme sets dark mode
func (s *Store) SetTheme(ctx context.Context, dark bool) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTheme(ctx, dark)
}

// ToggleCatalogMode switches between the conventional and eco catalogs
func (s *Store) ToggleCatalogMode(ctx context.Context) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCatalog(ctx, !s.mode.GreenMode)
}

// SetCatalogMode selects the eco catalog when eco is true. Listeners run only
// when the mode actually changes.
func (s *Store) SetCatalogMode(ctx context.Context, eco bool) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCatalog(ctx, eco)
}

func (s *Store) setTheme(ctx context.Context, dark bool) Mode {
	if s.mode.Dark != dark {
		s.mode.Dark = dark
		s.slots.Write(ctx, domain.SlotTheme, dark)
	}
	return s.mode
}

func (s *Store) setCatalog(ctx context.Context, eco bool) Mode {
	if s.mode.GreenMode == eco {
		return s.mode
	}

	s.mode.GreenMode = eco
	s.slots.Write(ctx, domain.SlotGreenMode, eco)
	s.logger.Debugf("Catalog mode changed, eco=%t", eco)

	for _, l := range s.listeners {
		l(ctx, eco)
	}
	return s.mode
}
