package worker

import (
	"context"
	"fmt"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// Recorder turns a swap event into the session's leaderboard standing
type Recorder struct {
	standings domain.StandingRepository
	logger    *logger.Logger
}

// NewRecorder creates a new standings recorder
func NewRecorder(standings domain.StandingRepository, logger *logger.Logger) *Recorder {
	return &Recorder{
		standings: standings,
		logger:    logger,
	}
}

// Record upserts the standing carried by event. The event holds the running
// total, so replaying an older event only rewrites an older total.
func (r *Recorder) Record(ctx context.Context, event shop.Event) error {
	if event.SessionID == "" {
		return fmt.Errorf("event has no session id: %w", domain.ErrInvalidInput)
	}

	entry := gamification.Standing(event.SessionID, nil, event.TotalCarbonSaved)
	entry.Name = gamification.AnonymousName
	if event.Actor != "" {
		entry.Name = event.Actor
	}

	if err := r.standings.Upsert(ctx, &entry); err != nil {
		return fmt.Errorf("failed to record standing: %w", err)
	}

	r.logger.WithFields(map[string]any{
		"session_id":   entry.ID,
		"carbon_saved": entry.CarbonSaved,
		"level":        entry.Level,
	}).Info("Recorded leaderboard standing")

	return nil
}
