package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/shared/biztime"
)

var testConfig = TokenBucketConfig{Capacity: 5, RefillPerSec: 1, MaxActors: 100, IdleTTL: time.Hour}

func setupMiniredis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client
}

func assertBucketSemantics(t *testing.T, limiter Limiter, clock *biztime.ManualClock) {
	t.Helper()
	ctx := context.Background()

	for i := range 5 {
		ok, err := limiter.TryConsume(ctx, "user:1", 1)
		require.NoError(t, err)
		assert.True(t, ok, "consume %d should pass", i+1)
	}
	ok, err := limiter.TryConsume(ctx, "user:1", 1)
	require.NoError(t, err)
	assert.False(t, ok, "bucket should be empty")

	other, err := limiter.TryConsume(ctx, "user:2", 1)
	require.NoError(t, err)
	assert.True(t, other, "actors have separate buckets")

	clock.Advance(time.Second)
	ok, err = limiter.TryConsume(ctx, "user:1", 1)
	require.NoError(t, err)
	assert.True(t, ok, "one token refilled after one second")
	ok, err = limiter.TryConsume(ctx, "user:1", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(testConfig.RefillDuration())
	for i := range 5 {
		ok, err := limiter.TryConsume(ctx, "user:1", 1)
		require.NoError(t, err)
		assert.True(t, ok, "consume %d after full refill", i+1)
	}
	ok, err = limiter.TryConsume(ctx, "user:1", 1)
	require.NoError(t, err)
	assert.False(t, ok, "refill never exceeds capacity")
}

func TestMemoryLimiter_TokenBucket(t *testing.T) {
	clock := biztime.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	limiter, err := NewMemoryLimiter(testConfig, clock)
	require.NoError(t, err)

	assertBucketSemantics(t, limiter, clock)
}

func TestMemoryLimiter_BoundsActors(t *testing.T) {
	clock := biztime.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	cfg := testConfig
	cfg.MaxActors = 2
	limiter, err := NewMemoryLimiter(cfg, clock)
	require.NoError(t, err)
	ctx := context.Background()

	for range 5 {
		_, err := limiter.TryConsume(ctx, "a", 1)
		require.NoError(t, err)
	}
	ok, err := limiter.TryConsume(ctx, "a", 1)
	require.NoError(t, err)
	require.False(t, ok)

	_, _ = limiter.TryConsume(ctx, "b", 1)
	_, _ = limiter.TryConsume(ctx, "c", 1)
	assert.Equal(t, 2, limiter.Len())

	ok, err = limiter.TryConsume(ctx, "a", 1)
	require.NoError(t, err)
	assert.True(t, ok, "evicted actor starts with a full bucket")
}

func TestMemoryLimiter_CostLargerThanCapacity(t *testing.T) {
	limiter, err := NewMemoryLimiter(testConfig, nil)
	require.NoError(t, err)

	ok, err := limiter.TryConsume(context.Background(), "a", 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLimiter_TokenBucket(t *testing.T) {
	client := setupMiniredis(t)
	clock := biztime.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	limiter, err := NewRedisLimiter(client, testConfig, clock)
	require.NoError(t, err)

	assertBucketSemantics(t, limiter, clock)

	ttl, err := client.PTTL(context.Background(), "vipgate:admission:user:1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestTokenBucketConfig_Validate(t *testing.T) {
	assert.Error(t, TokenBucketConfig{Capacity: 0, RefillPerSec: 1}.Validate())
	assert.Error(t, TokenBucketConfig{Capacity: 1, RefillPerSec: 0}.Validate())
	assert.NoError(t, testConfig.Validate())
	assert.Equal(t, 5*time.Second, testConfig.RefillDuration())
}
