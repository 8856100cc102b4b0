package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// RedisSlotStore implements domain.SlotStore on Redis strings
type RedisSlotStore struct {
	client  *redis.Client
	slotTTL time.Duration
}

// NewRedisSlotStore creates a Redis-backed slot store. A zero slotTTL keeps
// slots until they are deleted.
func NewRedisSlotStore(client *redis.Client, slotTTL time.Duration) *RedisSlotStore {
	return &RedisSlotStore{
		client:  client,
		slotTTL: slotTTL,
	}
}

// Get retrieves the raw slot content
func (s *RedisSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

// Set stores the raw slot content, refreshing the TTL
func (s *RedisSlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.slotTTL).Err()
}

// Delete removes the slot
func (s *RedisSlotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
