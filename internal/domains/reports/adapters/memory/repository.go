package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory report store.
type Repository struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
	order   []string
}

func NewRepository() *Repository {
	return &Repository{reports: map[string]*domain.Report{}}
}

func (r *Repository) Insert(_ context.Context, report *domain.Report) (string, error) {
	if report == nil {
		return "", errors.New("report is nil")
	}
	clone := report.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if _, exists := r.reports[clone.ID]; !exists {
		r.order = append(r.order, clone.ID)
	}
	r.reports[clone.ID] = clone
	return clone.ID, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return report.Clone(), nil
}

func (r *Repository) Find(_ context.Context, filter ports.Filter) ([]*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matching(filter), nil
}

func (r *Repository) UpdateFields(_ context.Context, id string, update ports.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return ports.ErrNotFound
	}
	report.Status = update.Status
	if update.DeliveryDate != nil {
		delivered := *update.DeliveryDate
		report.DeliveryDate = &delivered
	}
	return nil
}

func (r *Repository) Count(_ context.Context, filter ports.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(filter))), nil
}

type bucketKey struct {
	day, month, year  int
	zone, destination string
	status            domain.DeliveryStatus
}

type bucket struct {
	result  ports.GroupResult
	hours   float64
	samples int
}

func (r *Repository) Aggregate(_ context.Context, spec ports.GroupSpec) ([]ports.GroupResult, error) {
	r.mu.RLock()
	reports := r.matching(spec.Filter)
	r.mu.RUnlock()

	field := spec.DateField
	if field == "" {
		field = spec.Filter.Field()
	}
	loc := spec.Loc()
	calendar := ports.Has(spec.By, ports.GroupByDay) || ports.Has(spec.By, ports.GroupByMonth) || ports.Has(spec.By, ports.GroupByYear)

	buckets := map[bucketKey]*bucket{}
	for _, report := range reports {
		var key bucketKey
		if calendar {
			date := ports.DateOf(report, field)
			if date == nil {
				continue
			}
			local := date.In(loc)
			if ports.Has(spec.By, ports.GroupByDay) {
				key.day = local.Day()
			}
			if ports.Has(spec.By, ports.GroupByMonth) {
				key.month = int(local.Month())
			}
			if ports.Has(spec.By, ports.GroupByYear) {
				key.year = local.Year()
			}
		}
		if ports.Has(spec.By, ports.GroupByZone) {
			key.zone = report.DeliveryZone
		}
		if ports.Has(spec.By, ports.GroupByDestination) {
			key.destination = report.Destination
		}
		if ports.Has(spec.By, ports.GroupByStatus) {
			key.status = report.Status
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{result: ports.GroupResult{
				Day: key.day, Month: key.month, Year: key.year,
				Zone: key.zone, Destination: key.destination, Status: key.status,
			}}
			buckets[key] = b
		}
		b.result.Count++
		if spec.AverageCompletion {
			if hours, ok := report.CompletionHours(); ok {
				b.hours += hours
				b.samples++
			}
		}
	}

	results := make([]ports.GroupResult, 0, len(buckets))
	for _, b := range buckets {
		if spec.AverageCompletion && b.samples > 0 {
			b.result.AverageCompletionHours = b.hours / float64(b.samples)
		}
		results = append(results, b.result)
	}
	sort.Slice(results, func(i, j int) bool { return lessResult(results[i], results[j]) })
	return results, nil
}

func lessResult(a, b ports.GroupResult) bool {
	switch {
	case a.Year != b.Year:
		return a.Year < b.Year
	case a.Month != b.Month:
		return a.Month < b.Month
	case a.Day != b.Day:
		return a.Day < b.Day
	case a.Zone != b.Zone:
		return a.Zone < b.Zone
	case a.Destination != b.Destination:
		return a.Destination < b.Destination
	default:
		return a.Status.Rank() < b.Status.Rank()
	}
}

// matching must be called with the lock held.
func (r *Repository) matching(filter ports.Filter) []*domain.Report {
	list := make([]*domain.Report, 0, len(r.order))
	for _, id := range r.order {
		report := r.reports[id]
		if matches(report, filter) {
			list = append(list, report.Clone())
		}
	}
	return list
}

func matches(report *domain.Report, filter ports.Filter) bool {
	if filter.Zone != "" && report.DeliveryZone != filter.Zone {
		return false
	}
	if filter.OperatorID != "" && report.Operator.ID != filter.OperatorID {
		return false
	}
	if filter.Airline != "" && report.Airline != filter.Airline {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, report.Status) {
		return false
	}
	if filter.From == nil && filter.To == nil {
		return true
	}
	date := ports.DateOf(report, filter.Field())
	if date == nil {
		return false
	}
	if filter.From != nil && date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !date.Before(*filter.To) {
		return false
	}
	return true
}

func containsStatus(statuses []domain.DeliveryStatus, status domain.DeliveryStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
