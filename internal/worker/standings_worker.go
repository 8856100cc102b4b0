package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

const (
	// Debounce window - swaps of the same session within it cost one write
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	attemptTimeout = 5 * time.Second
)

// StandingsWorker keeps leaderboard standings in step with cart swaps
type StandingsWorker struct {
	recorder *Recorder
	logger   *logger.Logger

	mu         sync.Mutex
	pending    map[string]*pendingStanding
	shutdownCh chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

type pendingStanding struct {
	event shop.Event
	timer *time.Timer
}

// NewStandingsWorker creates a new standings worker
func NewStandingsWorker(recorder *Recorder, logger *logger.Logger) *StandingsWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &StandingsWorker{
		recorder:   recorder,
		logger:     logger,
		pending:    make(map[string]*pendingStanding),
		shutdownCh: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// HandleEvent decodes a shop event and schedules a standing update for swaps.
// Other event types are accepted and ignored.
func (w *StandingsWorker) HandleEvent(data []byte) error {
	var event shop.Event
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal shop event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Type != shop.EventCartSwapped {
		w.logger.Debugf("Skipping %s event", event.Type)
		return nil
	}

	if event.SessionID == "" {
		return fmt.Errorf("swap event without session id: %w", domain.ErrInvalidInput)
	}

	w.logger.WithFields(map[string]any{
		"session_id":   event.SessionID,
		"carbon_delta": event.CarbonDelta,
		"timestamp":    event.Timestamp,
	}).Info("Received swap event")

	w.schedule(event)
	return nil
}

// schedule keeps the newest event per session and restarts its timer
func (w *StandingsWorker) schedule(event shop.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	sessionID := event.SessionID
	existing, found := w.pending[sessionID]

	if found {
		if event.Timestamp.Before(existing.event.Timestamp) {
			w.logger.WithFields(map[string]any{
				"session_id":  sessionID,
				"existing_ts": existing.event.Timestamp,
				"event_ts":    event.Timestamp,
			}).Debug("Ignoring stale event")
			return
		}
	}
	// Each armed timer holds one wg slot; a timer that already fired keeps its own
	if !found || !existing.timer.Stop() {
		w.wg.Add(1)
	}

	w.pending[sessionID] = &pendingStanding{
		event: event,
		timer: time.AfterFunc(debounceWindow, func() {
			w.process(sessionID)
		}),
	}
}

// process records the pending standing, retrying with exponential backoff
func (w *StandingsWorker) process(sessionID string) {
	defer w.wg.Done()

	w.mu.Lock()
	update, ok := w.pending[sessionID]
	delete(w.pending, sessionID)
	w.mu.Unlock()

	if !ok {
		return
	}

	log := w.logger.With("session_id", sessionID)

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			log.WithFields(map[string]any{
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying standing update")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				log.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, attemptTimeout)
		err := w.recorder.Record(ctx, update.event)
		cancel()

		if err == nil {
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			log.Error("Dropping invalid standing update", err)
			return
		}

		lastErr = err
		log.With("attempt", attempt+1).Error("Failed to update standing", err)
	}

	log.With("max_retries", maxRetries).Error("Standing update failed after all retries", lastErr)
}

// Shutdown stops accepting events, drops pending timers and waits for
// in-flight updates until ctx expires.
func (w *StandingsWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down standings worker...")

	close(w.shutdownCh)
	w.cancel()

	w.mu.Lock()
	cancelled := 0
	for sessionID, update := range w.pending {
		// A timer that already fired owns its wg slot
		if update.timer.Stop() {
			w.wg.Done()
			cancelled++
		}
		delete(w.pending, sessionID)
	}
	w.mu.Unlock()

	w.logger.With("cancelled_updates", cancelled).Info("Cancelled pending updates")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight updates completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of sessions waiting for their debounce
func (w *StandingsWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
