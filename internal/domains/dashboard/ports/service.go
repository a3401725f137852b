package ports

import (
	"context"
	"time"

	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// CountsQuery selects the report-count aggregation. Year and Month are 0 when absent.
type CountsQuery struct {
	Filter     string
	Year       int
	Month      int
	OperatorID string
	Airline    string
	Status     string
}

// CountRow is one bucket. Day is 0 and Month empty when not bucketed on.
type CountRow struct {
	Day   int
	Month string
	Year  int
	Total int64
}

// ReportRow is the raw data behind a short-window count.
type ReportRow struct {
	DeliveryDate *time.Time
	CreationDate time.Time
	BDONumber    int64
	Airline      string
	Status       reportsdomain.DeliveryStatus
	Destination  string
}

// Counts is the result of a report-count query.
type Counts struct {
	Rows    []CountRow
	Reports []ReportRow
}

// CompletionTime is the mean creation-to-delivery time for one destination.
type CompletionTime struct {
	Zone         string
	Destination  string
	AverageHours float64
}

// StatusPercentage is the share of reports in one status.
type StatusPercentage struct {
	Status     reportsdomain.DeliveryStatus
	Percentage int
}

// Service exposes the admin dashboard aggregations.
type Service interface {
	ReportCounts(ctx context.Context, actor identity.Actor, query CountsQuery) (*Counts, error)
	AverageCompletionTimes(ctx context.Context, actor identity.Actor, zone string) ([]CompletionTime, error)
	StatusPercentages(ctx context.Context, actor identity.Actor, operatorID string) ([]StatusPercentage, error)
}
