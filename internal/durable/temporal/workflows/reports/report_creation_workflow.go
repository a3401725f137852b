package reports

import (
	"go.temporal.io/sdk/workflow"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportactivities "github.com/bdotrack/bdo-api/internal/durable/temporal/activities/reports"
	"github.com/bdotrack/bdo-api/internal/durable/temporal/sequences"
)

const (
	// ReportCreationWorkflowName is the public identifier for registering the workflow.
	ReportCreationWorkflowName = "reports.workflows.Creation"
	// ReportCreationTaskQueue is the queue consumed by the worker processing report workflows.
	ReportCreationTaskQueue = "BDO_REPORT_CREATION"
)

// ReportCreationWorkflowInput captures the payload required to open a report.
type ReportCreationWorkflowInput struct {
	Command reportactivities.CreateReportInput
	TraceID string
}

// ReportCreationWorkflow orchestrates the activities needed to persist a report.
func ReportCreationWorkflow(ctx workflow.Context, input ReportCreationWorkflowInput) (*domain.Report, error) {
	logger := workflow.GetLogger(ctx)
	operatorID := input.Command.Actor.ID
	logger.Info("ReportCreationWorkflow started", withTraceID(input.TraceID, "operatorId", operatorID)...)
	report, err := sequences.RunReportCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ReportCreationWorkflow failed", withTraceID(input.TraceID, "operatorId", operatorID, "error", err)...)
		return nil, err
	}
	logger.Info("ReportCreationWorkflow completed", withTraceID(input.TraceID, "reportId", report.ID)...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
