package application

import (
	"errors"

	"github.com/bdotrack/bdo-api/internal/domains/dashboard/domain"
	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
)

var (
	// ErrForbidden is returned to non-admin actors before any query runs.
	ErrForbidden = errors.New("not enough permissions")
	// ErrNotFound is returned when an aggregation has nothing to report.
	ErrNotFound = errors.New("no dashboard data")
	// ErrInvalidFilter is returned for unknown periods or malformed filter values.
	ErrInvalidFilter = domain.ErrInvalidFilter
	// ErrInvalidStatus is returned for unknown status filter values.
	ErrInvalidStatus = reportsdomain.ErrInvalidStatus

	errOperatorWithoutReports = errors.New("the operator has no reports with the specified status")
	errNoReportsForFilter     = errors.New("no reports found for the specified filter")
	errNoCompletedReports     = errors.New("no completed reports found for the given delivery zone")
	errNoReports              = errors.New("no reports found")
	errZoneRequired           = errors.New("delivery zone is required")
)
