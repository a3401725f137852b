package ports

import (
	"context"
	"errors"
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

var ErrNotFound = errors.New("report not found")

// DateField names the timestamp a query windows and buckets on.
type DateField string

const (
	DateFieldCreation DateField = "creation_date"
	DateFieldDelivery DateField = "delivery_date"
)

// Filter narrows a query. Zero values mean "no restriction".
type Filter struct {
	Zone       string
	OperatorID string
	Airline    string
	Statuses   []domain.DeliveryStatus
	// DateField selects the timestamp From/To apply to; creation by default.
	DateField DateField
	// From is inclusive, To exclusive.
	From *time.Time
	To   *time.Time
}

// GroupKey is a dimension results can be grouped by.
type GroupKey string

const (
	GroupByDay         GroupKey = "day"
	GroupByMonth       GroupKey = "month"
	GroupByYear        GroupKey = "year"
	GroupByZone        GroupKey = "delivery_zone"
	GroupByDestination GroupKey = "destination"
	GroupByStatus      GroupKey = "delivery_status"
)

// GroupSpec describes a grouped count over filtered reports.
type GroupSpec struct {
	Filter Filter
	By     []GroupKey
	// DateField is the timestamp calendar keys are extracted from.
	DateField DateField
	// Location is the time zone calendar keys are computed in; UTC when nil.
	Location *time.Location
	// AverageCompletion also computes mean delivery minus creation in hours.
	AverageCompletion bool
}

// GroupResult is one bucket. Keys not grouped on keep their zero value.
type GroupResult struct {
	Day         int
	Month       int
	Year        int
	Zone        string
	Destination string
	Status      domain.DeliveryStatus

	Count                  int64
	AverageCompletionHours float64
}

// StatusUpdate is the field set written by a status change.
type StatusUpdate struct {
	Status       domain.DeliveryStatus
	DeliveryDate *time.Time
}

// Repository is the report store. Implementations translate their native
// document or row shape into domain.Report at the boundary.
type Repository interface {
	Insert(ctx context.Context, report *domain.Report) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	Find(ctx context.Context, filter Filter) ([]*domain.Report, error)
	UpdateFields(ctx context.Context, id string, update StatusUpdate) error
	Count(ctx context.Context, filter Filter) (int64, error)
	Aggregate(ctx context.Context, spec GroupSpec) ([]GroupResult, error)
}

// Has reports whether keys contains key.
func Has(keys []GroupKey, key GroupKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Loc returns the configured location or UTC.
func (s GroupSpec) Loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Field returns the timestamp column the filter windows on.
func (f Filter) Field() DateField {
	if f.DateField == "" {
		return DateFieldCreation
	}
	return f.DateField
}

// DateOf picks the timestamp named by field from report.
func DateOf(report *domain.Report, field DateField) *time.Time {
	if field == DateFieldDelivery {
		return report.DeliveryDate
	}
	created := report.CreationDate
	return &created
}
