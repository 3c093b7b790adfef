package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/orris-inc/vipgate/internal/shared/biztime"
)

const defaultMaxActors = 10000

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// MemoryLimiter keeps buckets in process memory. They are lost on restart.
type MemoryLimiter struct {
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *bucket]
	capacity float64
	rate     float64
	clock    biztime.Clock
}

func NewMemoryLimiter(cfg TokenBucketConfig, clock biztime.Clock) (*MemoryLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	maxActors := cfg.MaxActors
	if maxActors <= 0 {
		maxActors = defaultMaxActors
	}
	if clock == nil {
		clock = biztime.SystemClock()
	}
	return &MemoryLimiter{
		buckets:  expirable.NewLRU[string, *bucket](maxActors, nil, cfg.IdleTTL),
		capacity: float64(cfg.Capacity),
		rate:     cfg.RefillPerSec,
		clock:    clock,
	}, nil
}

func (l *MemoryLimiter) TryConsume(_ context.Context, actor string, cost int) (bool, error) {
	if cost <= 0 {
		cost = 1
	}
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(actor)
	if !ok {
		b = &bucket{tokens: l.capacity, lastSeen: now}
	}
	b.tokens = refill(b.tokens, l.capacity, l.rate, now.Sub(b.lastSeen))
	b.lastSeen = now

	allowed := b.tokens >= float64(cost)
	if allowed {
		b.tokens -= float64(cost)
	}
	// re-adding refreshes both recency and the idle deadline
	l.buckets.Add(actor, b)
	return allowed, nil
}

// Len returns the number of tracked actors.
func (l *MemoryLimiter) Len() int {
	return l.buckets.Len()
}
