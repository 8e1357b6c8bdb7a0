package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/profitscout/scout-api/pkg/redis"
)

// Limiter gates inbound requests. key identifies the caller.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// localLimiter is a process-local token bucket shared across callers.
// Used when Redis is not configured.
type localLimiter struct {
	lim *rate.Limiter
}

// NewLocalLimiter creates a token-bucket limiter
func NewLocalLimiter(rps, burst int) Limiter {
	return &localLimiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *localLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.lim.Allow(), nil
}

// redisLimiter applies a per-caller sliding window backed by Redis,
// consistent across replicas.
type redisLimiter struct {
	rl    *redis.RateLimiter
	limit int
}

// NewRedisLimiter creates a Redis-backed per-caller limiter
func NewRedisLimiter(client *redis.Client, rps int) Limiter {
	return &redisLimiter{
		rl:    redis.NewRateLimiter(client, "scout"),
		limit: rps,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.rl.Allow(ctx, redis.RateLimitConfig{
		Key:    key,
		Limit:  l.limit,
		Window: time.Second,
	})
	return allowed, err
}
