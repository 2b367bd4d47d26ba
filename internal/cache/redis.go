package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisProcessedSessions(client *redis.Client) *RedisProcessedSessions {
	return &RedisProcessedSessions{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// RedisProcessedSessions keeps processed session ids in Redis with a TTL.
// Stripe retries webhook deliveries for at most a few days, so entries do
// not need to outlive that window.
type RedisProcessedSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisProcessedSessions) Seen(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, dedupeKey(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	return true, nil
}

func (r RedisProcessedSessions) Mark(ctx context.Context, sessionID string) error {
	if err := r.client.Set(ctx, dedupeKey(sessionID), "1", r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func dedupeKey(sessionID string) string {
	return fmt.Sprintf("fulfilled:%s", sessionID)
}
