//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

func setupReportsMongoContainer(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Disconnect(ctx)
		container.Terminate(ctx)
	}
	return client.Database("bdo_test"), cleanup
}

func TestRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupReportsMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	created := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	id, err := repo.Insert(ctx, &domain.Report{
		CreationDate:    created,
		Airline:         "LATAM",
		ReferenceNumber: 1,
		BDONumber:       2,
		DeliveryZone:    "Norte",
		Destination:     "Centro",
		Operator:        domain.Operator{ID: "u-1", Name: "Ana Perez"},
		Status:          domain.StatusActive,
	})
	require.NoError(t, err)

	fetched, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, fetched.Status)
	assert.Nil(t, fetched.DeliveryDate)

	delivered := created.Add(6 * time.Hour)
	require.NoError(t, repo.UpdateFields(ctx, id, ports.StatusUpdate{Status: domain.StatusCompleted, DeliveryDate: &delivered}))

	averages, err := repo.Aggregate(ctx, ports.GroupSpec{
		Filter:            ports.Filter{Zone: "Norte", Statuses: []domain.DeliveryStatus{domain.StatusCompleted, domain.StatusInvoiced}},
		By:                []ports.GroupKey{ports.GroupByZone, ports.GroupByDestination},
		AverageCompletion: true,
	})
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.InDelta(t, 6.0, averages[0].AverageCompletionHours, 0.001)

	byDay, err := repo.Aggregate(ctx, ports.GroupSpec{
		Filter: ports.Filter{Statuses: []domain.DeliveryStatus{domain.StatusCompleted}, DateField: ports.DateFieldDelivery},
		By:     []ports.GroupKey{ports.GroupByDay, ports.GroupByMonth, ports.GroupByYear},
	})
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.Equal(t, ports.GroupResult{Day: 1, Month: 4, Year: 2024, Count: 1}, byDay[0])

	_, err = repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
