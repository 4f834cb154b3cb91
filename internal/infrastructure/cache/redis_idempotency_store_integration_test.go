//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	store, err := NewRedisIdempotencyStore(ctx, RedisOptions{Addr: endpoint})
	require.NoError(t, err)
	defer store.Close()

	isNew, err := store.MarkProcessed(ctx, "sale-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "sale-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	seen, err := store.IsProcessed(ctx, "sale-1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, store.Release(ctx, "sale-1"))
	seen, err = store.IsProcessed(ctx, "sale-1")
	require.NoError(t, err)
	assert.False(t, seen)
}
