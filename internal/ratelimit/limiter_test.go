package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, requests, window), mr
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !l.Allow(ctx, "203.0.113.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow(ctx, "203.0.113.1") {
		t.Fatal("request over the limit should be denied")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if !l.Allow(ctx, "a@example.com") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow(ctx, "b@example.com") {
		t.Fatal("second key should be allowed")
	}
	if l.Allow(ctx, "a@example.com") {
		t.Fatal("first key should now be denied")
	}
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	t.Parallel()

	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if !l.Allow(ctx, "key") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow(ctx, "key") {
		t.Fatal("second request should be denied")
	}

	mr.FastForward(2 * time.Minute)

	if !l.Allow(ctx, "key") {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestLimiterFailsOpenWhenRedisDown(t *testing.T) {
	t.Parallel()

	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	if !l.Allow(context.Background(), "key") {
		t.Fatal("limiter must fail open when Redis is unreachable")
	}
}
