package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets several probe processes share a limited pool of drivers (for
// example a single licensed browser grid slot) without stepping on each other.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (e.g. a driver name).
	// It blocks until the lock is acquired or the context is canceled.
	// The lock expires on its own after ttl if it is never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
