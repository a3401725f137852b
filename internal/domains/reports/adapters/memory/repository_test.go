package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

func seed(t *testing.T, repo *Repository, zone string, status domain.DeliveryStatus, created time.Time, delivered *time.Time) string {
	t.Helper()
	id, err := repo.Insert(context.Background(), &domain.Report{
		CreationDate:    created,
		DeliveryDate:    delivered,
		Airline:         "LATAM",
		ReferenceNumber: 1,
		BDONumber:       1,
		DeliveryZone:    zone,
		Destination:     "Centro",
		Operator:        domain.Operator{ID: "op-" + zone, Name: "Op " + zone},
		Status:          status,
	})
	require.NoError(t, err)
	return id
}

func TestRepository_InsertAndFind(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	id := seed(t, repo, "Norte", domain.StatusPending, now, nil)
	seed(t, repo, "Sur", domain.StatusActive, now, nil)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Norte", got.DeliveryZone)

	list, err := repo.Find(ctx, ports.Filter{Zone: "Sur"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.FindByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateFields(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	id := seed(t, repo, "Norte", domain.StatusActive, now, nil)

	delivered := now.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateFields(ctx, id, ports.StatusUpdate{Status: domain.StatusCompleted, DeliveryDate: &delivered}))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, got.Status)
	require.Equal(t, delivered, *got.DeliveryDate)

	require.ErrorIs(t, repo.UpdateFields(ctx, "missing", ports.StatusUpdate{Status: domain.StatusActive}), ports.ErrNotFound)
}

func TestRepository_WindowUsesSelectedDateField(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	created := time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)
	delivered := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	seed(t, repo, "Norte", domain.StatusCompleted, created, &delivered)
	seed(t, repo, "Norte", domain.StatusPending, created, nil)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	byDelivery, err := repo.Count(ctx, ports.Filter{DateField: ports.DateFieldDelivery, From: &from, To: &to})
	require.NoError(t, err)
	require.EqualValues(t, 1, byDelivery)

	byCreation, err := repo.Count(ctx, ports.Filter{From: &from, To: &to})
	require.NoError(t, err)
	require.EqualValues(t, 0, byCreation)
}

func TestRepository_AggregateByCalendar(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC) }
	seed(t, repo, "Norte", domain.StatusPending, day(2), nil)
	seed(t, repo, "Norte", domain.StatusPending, day(1), nil)
	seed(t, repo, "Sur", domain.StatusActive, day(2), nil)

	results, err := repo.Aggregate(ctx, ports.GroupSpec{By: []ports.GroupKey{ports.GroupByDay, ports.GroupByMonth, ports.GroupByYear}})
	require.NoError(t, err)
	require.Equal(t, []ports.GroupResult{
		{Day: 1, Month: 3, Year: 2024, Count: 1},
		{Day: 2, Month: 3, Year: 2024, Count: 2},
	}, results)
}

func TestRepository_AggregateAverageCompletion(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	d1 := created.Add(2 * time.Hour)
	d2 := created.Add(5 * time.Hour)
	seed(t, repo, "Norte", domain.StatusCompleted, created, &d1)
	seed(t, repo, "Norte", domain.StatusInvoiced, created, &d2)

	results, err := repo.Aggregate(ctx, ports.GroupSpec{
		Filter:            ports.Filter{Zone: "Norte", Statuses: []domain.DeliveryStatus{domain.StatusCompleted, domain.StatusInvoiced}},
		By:                []ports.GroupKey{ports.GroupByZone, ports.GroupByDestination},
		AverageCompletion: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.EqualValues(t, 2, results[0].Count)
	require.InDelta(t, 3.5, results[0].AverageCompletionHours, 0.0001)
}
