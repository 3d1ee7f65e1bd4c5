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

func newTestIdemStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewIdempotencyStore(rdb, 2*time.Hour), mr
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store, _ := newTestIdemStore(t)
	ctx := context.Background()
	key := KeyIdemBooking(1, "abc")

	// nothing stored yet
	_, ok, err := store.GetResult(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	locked, err := store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	// second acquire while in flight fails
	locked, err = store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, locked)

	isLocked, err := store.IsLocked(ctx, key)
	require.NoError(t, err)
	assert.True(t, isLocked)

	// a lock marker is not a result
	_, ok, err = store.GetResult(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveResult(ctx, key, `{"booking":{}}`))

	payload, ok, err := store.GetResult(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"booking":{}}`, payload)

	isLocked, err = store.IsLocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, isLocked)
}

func TestIdempotencyStore_Release(t *testing.T) {
	store, _ := newTestIdemStore(t)
	ctx := context.Background()
	key := KeyIdemBooking(1, "xyz")

	locked, err := store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, store.Release(ctx, key))

	// key is free again after a failed request released it
	locked, err = store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestIdempotencyStore_LockExpiry(t *testing.T) {
	store, mr := newTestIdemStore(t)
	ctx := context.Background()
	key := KeyIdemBooking(2, "slow")

	locked, err := store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	mr.FastForward(2 * time.Minute)

	locked, err = store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
}
