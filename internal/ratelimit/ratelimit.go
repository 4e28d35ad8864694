package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter is a sliding window rate limiter backed by Redis sorted sets. All
// API instances sharing the Redis instance share the window.
type Limiter struct {
	Client *redis.Client
	Prefix string
}

// Result reports the outcome of one admission attempt.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Allow registers an event for the key and reports whether it fits within
// max events per window. A nil client or non-positive bounds admit everything.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (Result, error) {
	if l.Client == nil || max <= 0 || window <= 0 {
		return Result{Allowed: true, Remaining: max, ResetAt: time.Now().Add(window)}, nil
	}

	now := time.Now()
	resetAt := now.Add(window)
	cutoff := float64(now.Add(-window).UnixNano())
	redisKey := l.Prefix + key

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: key + ":" + uuid.NewString()})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{ResetAt: resetAt}, err
	}

	current := int(countCmd.Val())
	remaining := max - current
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: current <= max, Remaining: remaining, ResetAt: resetAt}, nil
}
