package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// SlotRepository implements domain.SlotStore on the kv_slots table
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new PostgreSQL slot repository
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Get retrieves the raw slot content
func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_slots WHERE key = $1`

	var value []byte
	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return value, nil
}

// Set upserts the raw slot content
func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, key, value, time.Now())
	return err
}

// Delete removes the slot
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_slots WHERE key = $1`

	_, err := r.db.ExecContext(ctx, query, key)
	return err
}
