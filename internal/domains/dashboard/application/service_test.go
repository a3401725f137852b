package application

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bdotrack/bdo-api/internal/domains/dashboard/domain"
	"github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	"github.com/bdotrack/bdo-api/internal/domains/reports/adapters/memory"
	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

var (
	admin    = identity.Actor{ID: "u-1", FullName: "Juan Soto", Role: identity.RoleAdmin}
	operator = identity.Actor{ID: "u-2", FullName: "Ana Perez", Role: identity.RoleOperator, Zone: "Norte"}
	now      = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	repo *memory.Repository
	svc  *Service
}

func newFixture() *fixture {
	repo := memory.NewRepository()
	return &fixture{repo: repo, svc: NewService(repo, WithClock(func() time.Time { return now }))}
}

func (f *fixture) add(t *testing.T, r reportsdomain.Report) {
	t.Helper()
	if r.Airline == "" {
		r.Airline = "LATAM"
	}
	if r.DeliveryZone == "" {
		r.DeliveryZone = "Norte"
	}
	if r.Destination == "" {
		r.Destination = "Centro"
	}
	if r.Operator.ID == "" {
		r.Operator = reportsdomain.Operator{ID: "op-1", Name: "Ana Perez"}
	}
	_, err := f.repo.Insert(context.Background(), &r)
	require.NoError(t, err)
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func bdoNumbers(rows []ports.ReportRow) []int64 {
	numbers := make([]int64, 0, len(rows))
	for _, row := range rows {
		numbers = append(numbers, row.BDONumber)
	}
	return numbers
}

// spyRepository counts the read calls made against the wrapped repository.
type spyRepository struct {
	reportsports.Repository
	counts     atomic.Int64
	aggregates atomic.Int64
	finds      atomic.Int64
}

func (r *spyRepository) Count(ctx context.Context, filter reportsports.Filter) (int64, error) {
	r.counts.Add(1)
	return r.Repository.Count(ctx, filter)
}

func (r *spyRepository) Aggregate(ctx context.Context, spec reportsports.GroupSpec) ([]reportsports.GroupResult, error) {
	r.aggregates.Add(1)
	return r.Repository.Aggregate(ctx, spec)
}

func (r *spyRepository) Find(ctx context.Context, filter reportsports.Filter) ([]*reportsdomain.Report, error) {
	r.finds.Add(1)
	return r.Repository.Find(ctx, filter)
}

func TestDashboard_NonAdminForbidden(t *testing.T) {
	repo := &spyRepository{Repository: memory.NewRepository()}
	svc := NewService(repo, WithClock(func() time.Time { return now }))
	ctx := context.Background()
	for _, actor := range []identity.Actor{operator, {ID: "s", Role: identity.RoleSupervisor}} {
		_, err := svc.ReportCounts(ctx, actor, ports.CountsQuery{Filter: "15 days", OperatorID: "op-1"})
		require.ErrorIs(t, err, ErrForbidden)
		_, err = svc.ReportCounts(ctx, actor, ports.CountsQuery{Filter: "weekly", Status: "Perdido"})
		require.ErrorIs(t, err, ErrForbidden)
		_, err = svc.AverageCompletionTimes(ctx, actor, "Norte")
		require.ErrorIs(t, err, ErrForbidden)
		_, err = svc.StatusPercentages(ctx, actor, "")
		require.ErrorIs(t, err, ErrForbidden)
	}
	require.Zero(t, repo.counts.Load())
	require.Zero(t, repo.aggregates.Load())
	require.Zero(t, repo.finds.Load())
}

func TestReportCounts_InvalidFilterAndStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.ReportCounts(ctx, admin, ports.CountsQuery{Filter: "weekly"})
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = f.svc.ReportCounts(ctx, admin, ports.CountsQuery{Filter: "year", Status: "Perdido"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReportCounts_DefaultStatusesWindowOnCreationDate(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 10, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 1})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 9, 8), DeliveryDate: ptr(at(3, 10, 18)), Status: reportsdomain.StatusInvoiced, BDONumber: 2})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 2, 8), DeliveryDate: ptr(at(3, 2, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 3})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 12, 8), DeliveryDate: ptr(at(3, 12, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 4})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 11, 8), Status: reportsdomain.StatusActive, BDONumber: 5})

	counts, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "15 days"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{
		{Day: 9, Month: "Mar", Year: 2024, Total: 1},
		{Day: 12, Month: "Mar", Year: 2024, Total: 1},
	}, counts.Rows)
	require.Equal(t, []int64{2, 4}, bdoNumbers(counts.Reports))
}

func TestReportCounts_DeliveredOutsideCreationWindow(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 10, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 1})

	_, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "15 days"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, errNoReportsForFilter)

	counts, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "15 days", Status: "Finalizado"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{{Day: 10, Month: "Mar", Year: 2024, Total: 1}}, counts.Rows)
}

func TestReportCounts_ExplicitClosedStatusWindowsOnDeliveryDate(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 10, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 1})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 9, 8), DeliveryDate: ptr(at(3, 10, 18)), Status: reportsdomain.StatusInvoiced, BDONumber: 2})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 2, 8), DeliveryDate: ptr(at(3, 2, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 3})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 12, 8), DeliveryDate: ptr(at(3, 12, 9)), Status: reportsdomain.StatusCompleted, BDONumber: 4})

	completed, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "15 days", Status: "Finalizado"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{
		{Day: 10, Month: "Mar", Year: 2024, Total: 1},
		{Day: 12, Month: "Mar", Year: 2024, Total: 1},
	}, completed.Rows)
	require.Equal(t, []int64{1, 4}, bdoNumbers(completed.Reports))

	invoiced, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "15 days", Status: "Facturado"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{{Day: 10, Month: "Mar", Year: 2024, Total: 1}}, invoiced.Rows)
}

func TestReportCounts_BucketsSumToMatchingReports(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 10, 9)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 9, 8), DeliveryDate: ptr(at(3, 10, 18)), Status: reportsdomain.StatusInvoiced})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 12, 8), DeliveryDate: ptr(at(3, 12, 9)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 11, 8), Status: reportsdomain.StatusActive})
	f.add(t, reportsdomain.Report{CreationDate: at(2, 3, 8), DeliveryDate: ptr(at(3, 6, 8)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 15, 8), Status: reportsdomain.StatusPending})
	f.add(t, reportsdomain.Report{CreationDate: time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC), DeliveryDate: ptr(time.Date(2023, 11, 4, 0, 0, 0, 0, time.UTC)), Status: reportsdomain.StatusCompleted})

	closed := []reportsdomain.DeliveryStatus{reportsdomain.StatusCompleted, reportsdomain.StatusInvoiced}
	tests := []struct {
		name     string
		query    ports.CountsQuery
		statuses []reportsdomain.DeliveryStatus
		field    reportsports.DateField
		want     int64
	}{
		{name: "fifteen days", query: ports.CountsQuery{Filter: "15 days"}, statuses: closed, field: reportsports.DateFieldCreation, want: 2},
		{name: "monthly", query: ports.CountsQuery{Filter: "monthly"}, statuses: closed, field: reportsports.DateFieldCreation, want: 3},
		{name: "year", query: ports.CountsQuery{Filter: "year", Year: 2024}, statuses: closed, field: reportsports.DateFieldCreation, want: 4},
		{
			name:     "fifteen days completed",
			query:    ports.CountsQuery{Filter: "15 days", Status: "Finalizado"},
			statuses: []reportsdomain.DeliveryStatus{reportsdomain.StatusCompleted},
			field:    reportsports.DateFieldDelivery,
			want:     3,
		},
		{
			name:     "monthly active",
			query:    ports.CountsQuery{Filter: "monthly", Status: "Activo"},
			statuses: []reportsdomain.DeliveryStatus{reportsdomain.StatusActive},
			field:    reportsports.DateFieldCreation,
			want:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			window, err := domain.ResolveWindow(tt.query.Filter, tt.query.Year, tt.query.Month, now, time.UTC)
			require.NoError(t, err)
			matching, err := f.repo.Count(ctx, reportsports.Filter{
				Statuses:  tt.statuses,
				DateField: tt.field,
				From:      window.From,
				To:        window.To,
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, matching)

			counts, err := f.svc.ReportCounts(ctx, admin, tt.query)
			require.NoError(t, err)
			var total int64
			for _, row := range counts.Rows {
				total += row.Total
			}
			require.Equal(t, matching, total)
			if window.IncludesRows() {
				require.Len(t, counts.Reports, int(matching))
			}
		})
	}
}

func TestReportCounts_StatusFilterUsesCreationDate(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 11, 8), Status: reportsdomain.StatusActive})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 11, 9), Status: reportsdomain.StatusActive})
	f.add(t, reportsdomain.Report{CreationDate: at(2, 1, 9), Status: reportsdomain.StatusActive})

	counts, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "monthly", Status: "Activo"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{{Day: 11, Month: "Mar", Year: 2024, Total: 2}}, counts.Rows)
	require.Len(t, counts.Reports, 2)
}

func TestReportCounts_YearAndAllYears(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC), DeliveryDate: ptr(time.Date(2023, 11, 4, 0, 0, 0, 0, time.UTC)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{CreationDate: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), DeliveryDate: ptr(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)), Status: reportsdomain.StatusInvoiced})
	f.add(t, reportsdomain.Report{CreationDate: at(2, 3, 0), DeliveryDate: ptr(at(2, 4, 0)), Status: reportsdomain.StatusCompleted})

	year, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "year", Year: 2023})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{
		{Month: "Ene", Year: 2023, Total: 1},
		{Month: "Nov", Year: 2023, Total: 1},
	}, year.Rows)
	require.Nil(t, year.Reports)

	all, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "all years"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{
		{Year: 2023, Total: 2},
		{Year: 2024, Total: 1},
	}, all.Rows)

	var total int64
	for _, row := range all.Rows {
		total += row.Total
	}
	require.EqualValues(t, 3, total)
}

func TestReportCounts_AirlineFilter(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{Airline: "Sky", CreationDate: at(3, 1, 0), DeliveryDate: ptr(at(3, 15, 0)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{Airline: "LATAM", CreationDate: at(3, 1, 0), DeliveryDate: ptr(at(3, 15, 0)), Status: reportsdomain.StatusCompleted})

	sky, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "monthly", Airline: "Sky"})
	require.NoError(t, err)
	require.EqualValues(t, 1, sky.Rows[0].Total)

	all, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "monthly", Airline: "Todas"})
	require.NoError(t, err)
	require.EqualValues(t, 2, all.Rows[0].Total)
}

func TestReportCounts_NotFound(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 0), Status: reportsdomain.StatusPending, Operator: reportsdomain.Operator{ID: "op-9"}})

	_, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "all years", OperatorID: "op-9"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, errOperatorWithoutReports)

	_, err = f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "all years"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, errNoReportsForFilter)
}

func TestReportCounts_OperatorCheckHonoursStatus(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{CreationDate: at(3, 10, 0), Status: reportsdomain.StatusPending, Operator: reportsdomain.Operator{ID: "op-9"}})
	f.add(t, reportsdomain.Report{CreationDate: at(3, 10, 0), DeliveryDate: ptr(at(3, 11, 0)), Status: reportsdomain.StatusCompleted})

	_, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "monthly", OperatorID: "op-9", Status: "Finalizado"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, errOperatorWithoutReports)

	counts, err := f.svc.ReportCounts(context.Background(), admin, ports.CountsQuery{Filter: "monthly", OperatorID: "op-9", Status: "Pendiente"})
	require.NoError(t, err)
	require.Equal(t, []ports.CountRow{{Day: 10, Month: "Mar", Year: 2024, Total: 1}}, counts.Rows)
}

func TestAverageCompletionTimes(t *testing.T) {
	f := newFixture()
	f.add(t, reportsdomain.Report{Destination: "Centro", CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 1, 10)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{Destination: "Centro", CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 1, 12)), Status: reportsdomain.StatusInvoiced})
	f.add(t, reportsdomain.Report{Destination: "Aeropuerto", CreationDate: at(3, 1, 8), DeliveryDate: ptr(time.Date(2024, 3, 1, 9, 20, 0, 0, time.UTC)), Status: reportsdomain.StatusCompleted})
	f.add(t, reportsdomain.Report{Destination: "Centro", CreationDate: at(3, 1, 8), Status: reportsdomain.StatusActive})
	f.add(t, reportsdomain.Report{DeliveryZone: "Sur", CreationDate: at(3, 1, 8), DeliveryDate: ptr(at(3, 2, 8)), Status: reportsdomain.StatusCompleted})

	times, err := f.svc.AverageCompletionTimes(context.Background(), admin, "Norte")
	require.NoError(t, err)
	require.Equal(t, []ports.CompletionTime{
		{Zone: "Norte", Destination: "Aeropuerto", AverageHours: 1.33},
		{Zone: "Norte", Destination: "Centro", AverageHours: 3},
	}, times)

	_, err = f.svc.AverageCompletionTimes(context.Background(), admin, "Oeste")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AverageCompletionTimes(context.Background(), admin, " ")
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestStatusPercentages(t *testing.T) {
	f := newFixture()
	statuses := []reportsdomain.DeliveryStatus{
		reportsdomain.StatusCompleted, reportsdomain.StatusCompleted, reportsdomain.StatusCompleted,
		reportsdomain.StatusInvoiced,
		reportsdomain.StatusPending, reportsdomain.StatusPending,
	}
	for _, status := range statuses {
		f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 0), Status: status})
	}
	f.add(t, reportsdomain.Report{CreationDate: at(3, 1, 0), Status: reportsdomain.StatusActive, Operator: reportsdomain.Operator{ID: "op-2"}})

	shares, err := f.svc.StatusPercentages(context.Background(), admin, "op-1")
	require.NoError(t, err)
	require.Equal(t, []ports.StatusPercentage{
		{Status: reportsdomain.StatusPending, Percentage: 33},
		{Status: reportsdomain.StatusCompleted, Percentage: 50},
		{Status: reportsdomain.StatusInvoiced, Percentage: 17},
	}, shares)

	sum := 0
	for _, share := range shares {
		sum += share.Percentage
	}
	require.InDelta(t, 100, sum, float64(len(shares)))

	all, err := f.svc.StatusPercentages(context.Background(), admin, "")
	require.NoError(t, err)
	require.Len(t, all, 4)

	_, err = f.svc.StatusPercentages(context.Background(), admin, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}
