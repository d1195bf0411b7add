package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "search:runlock:"

// RunLock serialises runs of a single search config across the process and
// any siblings sharing the Redis instance. Overlapping runs of one config
// are tolerated by the engine, so the lock is a hardening measure: a run
// that finds the lock held simply skips its turn.
type RunLock struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRunLock constructs a lock with the given hold TTL. The TTL bounds how
// long a crashed run can block its config.
func NewRunLock(rdb *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{rdb: rdb, ttl: ttl}
}

// Acquire takes the lock for configID. ok is false when another run
// currently holds it.
func (l *RunLock) Acquire(ctx context.Context, configID string) (ok bool, err error) {
	ok, err = l.rdb.SetNX(ctx, lockKeyPrefix+configID, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock for %s: %w", configID, err)
	}
	return ok, nil
}

// Release frees the lock for configID.
func (l *RunLock) Release(ctx context.Context, configID string) error {
	if err := l.rdb.Del(ctx, lockKeyPrefix+configID).Err(); err != nil {
		return fmt.Errorf("release run lock for %s: %w", configID, err)
	}
	return nil
}
