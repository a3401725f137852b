package reports

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	reportsapp "github.com/bdotrack/bdo-api/internal/domains/reports/application"
	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const (
	// CreateReportActivityName persists a new report and waits until it is readable.
	CreateReportActivityName = "reports.activities.CreateReport"

	// Application error types surfaced to the workflow caller.
	ErrTypeInvalidInput   = "InvalidInput"
	ErrTypeCreationFailed = "CreationFailed"
)

// CreateReportInput is the activity payload.
type CreateReportInput struct {
	Draft domain.Draft
	Actor identity.Actor
}

// Activities groups activities that operate on the reports bounded context.
type Activities struct {
	service reportsports.Service
}

// NewActivities wires the reports service into the Temporal activities bundle.
func NewActivities(service reportsports.Service) *Activities {
	return &Activities{service: service}
}

// CreateReport inserts a pending report on behalf of the input actor.
func (a *Activities) CreateReport(ctx context.Context, input CreateReportInput) (*domain.Report, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("report create activity not initialized", "operatorId", input.Actor.ID)
		return nil, errors.New("report create activity not initialized")
	}
	logger.Info("CreateReport activity started", "operatorId", input.Actor.ID, "bdoNumber", input.Draft.BDONumber)
	report, err := a.service.CreateReport(ctx, input.Draft, input.Actor)
	if err != nil {
		logger.Error("CreateReport activity failed", "operatorId", input.Actor.ID, "error", err)
		return nil, classify(err)
	}
	logger.Info("CreateReport activity completed", "reportId", report.ID)
	return report, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, reportsapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, reportsapp.ErrCreationFailed):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeCreationFailed, err)
	default:
		return err
	}
}
