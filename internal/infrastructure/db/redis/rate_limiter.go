package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimit  = 5
	defaultRateWindow = 15 * time.Minute
)

// RateLimiter counts attempts per key in a fixed window.
// Key format: ratelimit:<scope>:<client>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a RateLimiter. Zero values fall back to 5 attempts
// per 15 minutes.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, scope, clientID string) (bool, error) {
	key := l.key(scope, clientID)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}

// Reset clears the attempts recorded for clientID.
func (l *RateLimiter) Reset(ctx context.Context, scope, clientID string) error {
	return l.client.Del(ctx, l.key(scope, clientID)).Err()
}

func (l *RateLimiter) key(scope, clientID string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, clientID)
}
