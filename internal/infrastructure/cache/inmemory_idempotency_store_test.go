package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*InMemoryIdempotencyStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(time.Hour)
	store.now = clock.Now
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		store, _ := newTestStore(t)

		isNew, err := store.MarkProcessed(ctx, "sale-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "sale-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, isNew)

		seen, err := store.IsProcessed(ctx, "sale-1")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		store, clock := newTestStore(t)

		_, _ = store.MarkProcessed(ctx, "sale-2", time.Minute)
		clock.Advance(time.Minute)

		seen, err := store.IsProcessed(ctx, "sale-2")
		require.NoError(t, err)
		assert.False(t, seen)

		isNew, err := store.MarkProcessed(ctx, "sale-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("release allows a retry", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, _ = store.MarkProcessed(ctx, "sale-3", time.Hour)
		require.NoError(t, store.Release(ctx, "sale-3"))

		isNew, err := store.MarkProcessed(ctx, "sale-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("sweep drops only expired keys", func(t *testing.T) {
		store, clock := newTestStore(t)

		_, _ = store.MarkProcessed(ctx, "short", time.Minute)
		_, _ = store.MarkProcessed(ctx, "long", time.Hour)
		clock.Advance(2 * time.Minute)
		store.sweep()

		assert.Equal(t, 1, store.Len())
		seen, _ := store.IsProcessed(ctx, "long")
		assert.True(t, seen)
	})

	t.Run("concurrent marks admit exactly one", func(t *testing.T) {
		store, _ := newTestStore(t)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.MarkProcessed(ctx, "race", time.Minute); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Millisecond)
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("redis disabled uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("unreachable redis falls back", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachable).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(unreachable, WithInMemoryFallback(false)).CreateStore(ctx)
		assert.Error(t, err)
	})
}
