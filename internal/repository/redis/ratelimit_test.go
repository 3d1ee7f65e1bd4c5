package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewSlidingWindowLimiter(rdb, "rl", 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, current, _, err := limiter.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d", i)
		assert.Equal(t, int64(i), current)
	}

	allowed, current, retryAfter, err := limiter.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(4), current)
	assert.Greater(t, retryAfter, time.Duration(0))

	// a different key has its own window
	allowed, _, _, err = limiter.Allow(ctx, "ip:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}
