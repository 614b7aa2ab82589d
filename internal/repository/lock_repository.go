package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const editLockKey = "timetable:edit_lock"

// LockRepository persists the cooperative edit lock in Redis so it survives
// process restarts and is shared across server instances. The lock is
// advisory: it gates saves, it does not serialize reads.
type LockRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLockRepository builds the repository. A zero ttl means the lock never
// expires on its own.
func NewLockRepository(client *redis.Client, ttl time.Duration) *LockRepository {
	return &LockRepository{client: client, ttl: ttl}
}

// Acquire sets the lock. Locking an already-locked timetable is a no-op.
func (r *LockRepository) Acquire(ctx context.Context) error {
	if err := r.client.Set(ctx, editLockKey, "1", r.ttl).Err(); err != nil {
		return fmt.Errorf("acquire edit lock: %w", err)
	}
	return nil
}

// Release clears the lock. Releasing an unlocked timetable is a no-op.
func (r *LockRepository) Release(ctx context.Context) error {
	if err := r.client.Del(ctx, editLockKey).Err(); err != nil {
		return fmt.Errorf("release edit lock: %w", err)
	}
	return nil
}

// IsLocked reports the current lock state.
func (r *LockRepository) IsLocked(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, editLockKey).Result()
	if err != nil {
		return false, fmt.Errorf("check edit lock: %w", err)
	}
	return n > 0, nil
}
