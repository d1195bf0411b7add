package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"dailyjobs/search-service/internal/db"
)

func newTestLock(t *testing.T) (*db.RunLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return db.NewRunLock(client, time.Minute), mr
}

func TestRunLock_AcquireAndRelease(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok, "first acquire should succeed")

	ok, err = lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.False(t, ok, "second acquire while held should fail")

	require.NoError(t, lock.Release(ctx, "cfg-1"))

	ok, err = lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok, "acquire after release should succeed")
}

func TestRunLock_IndependentPerConfig(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lock.Acquire(ctx, "cfg-2")
	require.NoError(t, err)
	require.True(t, ok, "locks must be scoped per config")
}

func TestRunLock_ExpiresAfterTTL(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = lock.Acquire(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok, "a stale lock must expire with its TTL")
}
