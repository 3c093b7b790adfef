package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/vipgate/internal/shared/biztime"
)

// tokenBucketScript refills and consumes atomically. Timestamps are milliseconds supplied by
// the caller so every process shares one notion of elapsed time per request.
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', tostring(now))
redis.call('PEXPIRE', KEYS[1], ttl)
return allowed
`)

// RedisLimiter shares buckets across processes. Idle buckets expire with their key.
type RedisLimiter struct {
	client   *redis.Client
	capacity int
	rate     float64
	ttl      time.Duration
	prefix   string
	clock    biztime.Clock
}

func NewRedisLimiter(client *redis.Client, cfg TokenBucketConfig, clock biztime.Clock) (*RedisLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ttl := cfg.IdleTTL
	if ttl < cfg.RefillDuration() {
		ttl = cfg.RefillDuration()
	}
	if clock == nil {
		clock = biztime.SystemClock()
	}
	return &RedisLimiter{
		client:   client,
		capacity: cfg.Capacity,
		rate:     cfg.RefillPerSec,
		ttl:      ttl,
		prefix:   "vipgate:admission:",
		clock:    clock,
	}, nil
}

func (l *RedisLimiter) TryConsume(ctx context.Context, actor string, cost int) (bool, error) {
	if cost <= 0 {
		cost = 1
	}
	allowed, err := tokenBucketScript.Run(ctx, l.client,
		[]string{l.prefix + actor},
		l.capacity,
		l.rate,
		l.clock.Now().UnixMilli(),
		cost,
		l.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run token bucket script: %w", err)
	}
	return allowed == 1, nil
}
