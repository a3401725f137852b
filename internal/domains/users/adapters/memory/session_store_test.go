package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_ExpiresAndDeletes(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	store := NewSessionStoreWithTTL(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "AR", "t-1"))
	require.NoError(t, store.Save(ctx, "AR", "t-2"))
	require.NoError(t, store.Save(ctx, "JP", "t-3"))

	live, err := store.Exists(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, store.Delete(ctx, "AR"))
	live, _ = store.Exists(ctx, "t-2")
	assert.False(t, live)
	live, _ = store.Exists(ctx, "t-3")
	assert.True(t, live)

	now = now.Add(time.Hour)
	live, _ = store.Exists(ctx, "t-3")
	assert.False(t, live)
}
