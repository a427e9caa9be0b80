package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per key over a fixed period.
type Limiter struct {
	lim *limiter.Limiter
}

// NewMemory returns a process-local limiter allowing max requests per period.
func NewMemory(period time.Duration, max int) *Limiter {
	return &Limiter{lim: limiter.New(memory.NewStore(), limiter.Rate{Period: period, Limit: int64(max)})}
}

// NewRedis returns a limiter shared through Redis so every API replica sees the same counters.
func NewRedis(client *redis.Client, prefix string, period time.Duration, max int) (*Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return &Limiter{lim: limiter.New(store, limiter.Rate{Period: period, Limit: int64(max)})}, nil
}

// Allow registers one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l == nil || l.lim == nil {
		return Result{Allowed: true}, nil
	}
	lc, err := l.lim.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:   !lc.Reached,
		Limit:     int(lc.Limit),
		Remaining: int(lc.Remaining),
		Reset:     time.Unix(lc.Reset, 0),
	}, nil
}
