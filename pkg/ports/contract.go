package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunConfigStoreContract runs a suite of tests to verify that a ConfigStore
// implementation adheres to the defined interface contract. The store must
// start empty.
func RunConfigStoreContract(t *testing.T, store ConfigStore) {
	ctx := context.Background()

	t.Run("Set and Load", func(t *testing.T) {
		// 1. Seed values
		require.NoError(t, store.Set(ctx, "url", "http://localhost:8080"))
		require.NoError(t, store.Set(ctx, "user", "admin"))

		// 2. Load snapshot
		cfg, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg["url"])
		assert.Equal(t, "admin", cfg["user"])
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "user", "guest"))
		cfg, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "guest", cfg["user"])
	})

	t.Run("Snapshot Isolation", func(t *testing.T) {
		cfg, err := store.Load(ctx)
		require.NoError(t, err)
		cfg["url"] = "mutated"

		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", again["url"])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "user"))
		require.NoError(t, store.Delete(ctx, "never-existed"), "deleting a missing key is not an error")

		cfg, err := store.Load(ctx)
		require.NoError(t, err)
		assert.NotContains(t, cfg, "user")
		assert.Contains(t, cfg, "url")
	})
}

// RunLockerContract verifies that a DistributedLocker provides mutual
// exclusion and honours context cancellation.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()

	t.Run("Exclusive", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-exclusive", time.Minute)
		require.NoError(t, err)

		// A second acquisition must block until the first is released.
		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, "contract-exclusive", time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, "contract-exclusive", time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		a, err := locker.Lock(ctx, "contract-a", time.Minute)
		require.NoError(t, err)
		b, err := locker.Lock(ctx, "contract-b", time.Minute)
		require.NoError(t, err)
		require.NoError(t, a(ctx))
		require.NoError(t, b(ctx))
	})

	t.Run("Serializes Holders", func(t *testing.T) {
		var (
			mu      sync.Mutex
			holders int
			maxSeen int
			wg      sync.WaitGroup
		)
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "contract-serial", time.Minute)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				holders++
				maxSeen = max(maxSeen, holders)
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				holders--
				mu.Unlock()
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen)
	})
}
