package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter implements a fixed-window request limiter on Redis. Only
// available when the Redis backend is configured.
type RateLimiter struct {
	rdb               *redis.Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rdb *redis.Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		rdb:               rdb,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// Allow checks if a request should be allowed based on rate limits.
// Returns (allowed, remaining, resetTime, error).
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	fullKey := rateLimitPrefix + key
	windowEnd := time.Now().Truncate(time.Minute).Add(time.Minute)

	pipe := r.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	limit := int64(r.requestsPerMinute + r.burst)
	remaining := int(limit - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, windowEnd, nil
}

// Reset clears the rate limit counter for a key
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, rateLimitPrefix+key).Err()
}
