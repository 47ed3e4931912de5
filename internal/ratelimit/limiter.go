package ratelimit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/cthayes8/tlco-waitlist/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Limiter caps signup attempts per key over a sliding window. Errors
// talking to Redis fail open: a limiter outage must not block signups.
type Limiter struct {
	rdb      *redis.Client
	requests int
	window   time.Duration
}

func New(rdb *redis.Client, requests int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, requests: requests, window: window}
}

// Allow reports whether the caller identified by key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key so raw IPs and emails never land in Redis.
	sum := sha256.Sum256([]byte(key))
	redisKey := fmt.Sprintf("signup_rate:%x", sum)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.WarnContext(ctx, "Rate limiter unavailable, allowing request", "error", err)
		return true
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			logger.WarnContext(ctx, "Failed to set rate limit TTL", "error", err)
		}
	}

	return count <= int64(l.requests)
}
