// Package ratelimit implements per-actor token buckets for admission control.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// TokenBucketConfig describes every actor's bucket. A new bucket starts full.
type TokenBucketConfig struct {
	Capacity     int
	RefillPerSec float64
	// MaxActors bounds the in-memory bucket set; the least recently used actor is dropped.
	MaxActors int
	// IdleTTL drops a bucket untouched for this long. A dropped bucket comes back full.
	IdleTTL time.Duration
}

func (c TokenBucketConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("token bucket capacity must be positive, got %d", c.Capacity)
	}
	if c.RefillPerSec <= 0 {
		return fmt.Errorf("token bucket refill rate must be positive, got %v", c.RefillPerSec)
	}
	return nil
}

// RefillDuration is how long an empty bucket takes to fill up again.
func (c TokenBucketConfig) RefillDuration() time.Duration {
	return time.Duration(float64(c.Capacity) / c.RefillPerSec * float64(time.Second))
}

// Limiter admits or rejects actions per actor.
type Limiter interface {
	// TryConsume takes cost tokens from actor's bucket and reports whether it had enough.
	TryConsume(ctx context.Context, actor string, cost int) (bool, error)
}

// refill returns the token count after elapsed time, capped at capacity.
func refill(tokens, capacity, rate float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return tokens
	}
	return min(capacity, tokens+elapsed.Seconds()*rate)
}
