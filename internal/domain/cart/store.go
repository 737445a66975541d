// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists cart snapshots per session
type Store interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session's cart as a JSON document with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load returns the stored lines; a missing key is an empty cart
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return lines, nil
}

// Save overwrites the snapshot and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	if len(lines) == 0 {
		return s.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the session's cart
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
