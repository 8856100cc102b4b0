package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// StandingRepository implements domain.StandingRepository for PostgreSQL
type StandingRepository struct {
	db *sqlx.DB
}

// NewStandingRepository creates a new PostgreSQL standings repository
func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// Upsert records the latest standing of a shopper session
func (r *StandingRepository) Upsert(ctx context.Context, entry *domain.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard_standings (session_id, name, avatar, carbon_saved, level, badges, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE
		SET name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			carbon_saved = EXCLUDED.carbon_saved,
			level = EXCLUDED.level,
			badges = EXCLUDED.badges,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Name,
		entry.Avatar,
		entry.CarbonSaved,
		entry.Level,
		entry.Badges,
		time.Now(),
	)
	return err
}

// Top returns the highest standings ordered by carbon saved
func (r *StandingRepository) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := `
		SELECT session_id, name, avatar, carbon_saved, level, badges
		FROM leaderboard_standings
		ORDER BY carbon_saved DESC, updated_at ASC
		LIMIT $1
	`

	var entries []*domain.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}

	return entries, nil
}
