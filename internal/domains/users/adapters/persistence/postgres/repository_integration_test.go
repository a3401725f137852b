//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("bdo_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&UserRecord{}, &SessionRecord{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Ana", "Ruiz", identity.RoleOperator, "Norte")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("s3cret"))
	user.Username = username
	return user
}

func TestRepository_CreateAndGetByUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newUser(t, "AR"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, identity.RoleOperator, saved.Role)
	assert.True(t, saved.CheckPassword("s3cret"))

	fetched, err := repo.GetByUsername(ctx, "AR")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "Ana Ruiz", fetched.FullName())

	_, err = repo.Create(ctx, newUser(t, "AR"))
	assert.ErrorIs(t, err, ports.ErrUsernameTaken)

	_, err = repo.GetByUsername(ctx, "ZZ")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListAndDisable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, username := range []string{"AR", "AR1", "AR2"} {
		_, err := repo.Create(ctx, newUser(t, username))
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	require.NoError(t, repo.SetDisabled(ctx, "AR1", true))
	fetched, err := repo.GetByUsername(ctx, "AR1")
	require.NoError(t, err)
	assert.True(t, fetched.Disabled)

	assert.ErrorIs(t, repo.SetDisabled(ctx, "nobody", true), ports.ErrNotFound)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "AR", "t-1"))
	require.NoError(t, store.Save(ctx, "JP", "t-2"))

	live, err := store.Exists(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, store.Delete(ctx, "AR"))
	live, err = store.Exists(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, live)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	live, err = store.Exists(ctx, "t-2")
	require.NoError(t, err)
	assert.False(t, live)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
