package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bdotrack/bdo-api/internal/domains/dashboard/domain"
	"github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// closedStatuses are the statuses of delivered reports.
var closedStatuses = []reportsdomain.DeliveryStatus{reportsdomain.StatusCompleted, reportsdomain.StatusInvoiced}

// Service computes dashboard aggregations over the report store.
type Service struct {
	repo reportsports.Repository
	now  func() time.Time
	loc  *time.Location
}

type Option func(*Service)

// WithClock overrides the time source windows are resolved against.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone calendar buckets are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(repo reportsports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportCounts buckets matching reports by calendar period.
func (s *Service) ReportCounts(ctx context.Context, actor identity.Actor, query ports.CountsQuery) (*ports.Counts, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	window, err := domain.ResolveWindow(strings.TrimSpace(query.Filter), query.Year, query.Month, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	statuses, err := statusFilter(query.Status)
	if err != nil {
		return nil, err
	}
	field := dateFieldFor(query.Status, statuses)

	filter := reportsports.Filter{OperatorID: strings.TrimSpace(query.OperatorID), Statuses: statuses}
	if filter.OperatorID != "" {
		n, err := s.repo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, errOperatorWithoutReports)
		}
	}
	if airline := strings.TrimSpace(query.Airline); airline != "" && airline != domain.AllAirlines {
		filter.Airline = airline
	}
	filter.DateField = field
	filter.From = window.From
	filter.To = window.To

	keys := []reportsports.GroupKey{reportsports.GroupByYear}
	if window.ByMonth {
		keys = append(keys, reportsports.GroupByMonth)
	}
	if window.ByDay {
		keys = append(keys, reportsports.GroupByDay)
	}
	spec := reportsports.GroupSpec{Filter: filter, By: keys, DateField: field, Location: s.loc}

	var (
		groups  []reportsports.GroupResult
		reports []*reportsdomain.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.repo.Aggregate(gctx, spec)
		return err
	})
	if window.IncludesRows() {
		g.Go(func() error {
			var err error
			reports, err = s.repo.Find(gctx, filter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, errNoReportsForFilter)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	counts := &ports.Counts{Rows: make([]ports.CountRow, 0, len(groups))}
	for _, group := range groups {
		counts.Rows = append(counts.Rows, ports.CountRow{
			Day:   group.Day,
			Month: domain.MonthLabel(group.Month),
			Year:  group.Year,
			Total: group.Count,
		})
	}
	if window.IncludesRows() {
		counts.Reports = reportRows(reports, field)
	}
	return counts, nil
}

// AverageCompletionTimes reports mean creation-to-delivery hours per destination in zone.
func (s *Service) AverageCompletionTimes(ctx context.Context, actor identity.Actor, zone string) ([]ports.CompletionTime, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, errZoneRequired)
	}
	groups, err := s.repo.Aggregate(ctx, reportsports.GroupSpec{
		Filter:            reportsports.Filter{Zone: zone, Statuses: closedStatuses},
		By:                []reportsports.GroupKey{reportsports.GroupByZone, reportsports.GroupByDestination},
		AverageCompletion: true,
	})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, errNoCompletedReports)
	}
	times := make([]ports.CompletionTime, 0, len(groups))
	for _, group := range groups {
		times = append(times, ports.CompletionTime{
			Zone:         group.Zone,
			Destination:  group.Destination,
			AverageHours: roundTo(group.AverageCompletionHours, 2),
		})
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Destination < times[j].Destination })
	return times, nil
}

// StatusPercentages reports each status' share of all reports, optionally for one operator.
func (s *Service) StatusPercentages(ctx context.Context, actor identity.Actor, operatorID string) ([]ports.StatusPercentage, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	groups, err := s.repo.Aggregate(ctx, reportsports.GroupSpec{
		Filter: reportsports.Filter{OperatorID: strings.TrimSpace(operatorID)},
		By:     []reportsports.GroupKey{reportsports.GroupByStatus},
	})
	if err != nil {
		return nil, err
	}
	var total int64
	for _, group := range groups {
		total += group.Count
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, errNoReports)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Status.Rank() < groups[j].Status.Rank() })
	shares := make([]ports.StatusPercentage, 0, len(groups))
	for _, group := range groups {
		shares = append(shares, ports.StatusPercentage{
			Status:     group.Status,
			Percentage: int(math.Round(float64(group.Count) * 100 / float64(total))),
		})
	}
	return shares, nil
}

// statusFilter defaults to delivered reports when no status is requested.
func statusFilter(raw string) ([]reportsdomain.DeliveryStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return closedStatuses, nil
	}
	status, err := reportsdomain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return []reportsdomain.DeliveryStatus{status}, nil
}

// dateFieldFor windows on delivery date only when a closed status was asked for
// explicitly. The default closed-status filter still windows on creation date.
func dateFieldFor(raw string, statuses []reportsdomain.DeliveryStatus) reportsports.DateField {
	if strings.TrimSpace(raw) == "" || len(statuses) != 1 || !statuses[0].Closed() {
		return reportsports.DateFieldCreation
	}
	return reportsports.DateFieldDelivery
}

func reportRows(reports []*reportsdomain.Report, field reportsports.DateField) []ports.ReportRow {
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reportsports.DateOf(reports[i], field), reportsports.DateOf(reports[j], field)
		if a == nil || b == nil {
			return b != nil
		}
		return a.Before(*b)
	})
	rows := make([]ports.ReportRow, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, ports.ReportRow{
			DeliveryDate: report.DeliveryDate,
			CreationDate: report.CreationDate,
			BDONumber:    report.BDONumber,
			Airline:      report.Airline,
			Status:       report.Status,
			Destination:  report.Destination,
		})
	}
	return rows
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

var _ ports.Service = (*Service)(nil)
