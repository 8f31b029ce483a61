package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, "insight", limit, time.Hour), mr
}

func TestAllow_WithinLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other callers have their own budget.
	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_SetsExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	_, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "ratelimit:insight:ip:")
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))

	mr.FastForward(2 * time.Hour)
	assert.Empty(t, mr.Keys())
}

func TestAllow_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	_, err := l.Allow(context.Background(), "ip")
	assert.Error(t, err)
}
