//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)
	rdb := goredis.NewClient(opts)

	cleanup := func() {
		_ = rdb.Close()
		_ = container.Terminate(ctx)
	}
	return rdb, cleanup
}

func TestSessionStore_SaveExistsDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewSessionStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "AR", "t-1"))
	require.NoError(t, store.Save(ctx, "AR", "t-2"))
	require.NoError(t, store.Save(ctx, "JP", "t-3"))

	live, err := store.Exists(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, live)

	ttl, err := rdb.TTL(ctx, tokenKey("t-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Delete(ctx, "AR"))
	for _, token := range []string{"t-1", "t-2"} {
		live, err := store.Exists(ctx, token)
		require.NoError(t, err)
		assert.False(t, live)
	}
	live, err = store.Exists(ctx, "t-3")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, store.Delete(ctx, "nobody"))
}

func TestSessionStore_TokenExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewSessionStore(rdb, time.Second)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "AR", "short"))

	require.Eventually(t, func() bool {
		live, err := store.Exists(ctx, "short")
		return err == nil && !live
	}, 5*time.Second, 100*time.Millisecond)
}
