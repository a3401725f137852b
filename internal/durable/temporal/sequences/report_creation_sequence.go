package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportactivities "github.com/bdotrack/bdo-api/internal/durable/temporal/activities/reports"
)

// RunReportCreationSequence executes the activities that persist a new report.
// Inserts are not idempotent, so the create activity runs at most once.
func RunReportCreationSequence(ctx workflow.Context, input reportactivities.CreateReportInput) (*domain.Report, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("report creation sequence started", "operatorId", input.Actor.ID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var report domain.Report
	err := workflow.ExecuteActivity(ctx, reportactivities.CreateReportActivityName, input).Get(ctx, &report)
	if err != nil {
		logger.Error("report creation sequence failed", "operatorId", input.Actor.ID, "error", err)
		return nil, err
	}
	logger.Info("report creation sequence completed", "reportId", report.ID)
	return &report, nil
}
