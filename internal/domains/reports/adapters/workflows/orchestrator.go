package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	reportsapp "github.com/bdotrack/bdo-api/internal/domains/reports/application"
	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	reportactivities "github.com/bdotrack/bdo-api/internal/durable/temporal/activities/reports"
	reportworkflows "github.com/bdotrack/bdo-api/internal/durable/temporal/workflows/reports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalReportWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineReportWorkflows)(nil)
)

// TemporalReportWorkflows starts report workflows on a Temporal cluster.
type TemporalReportWorkflows struct {
	client    client.Client
	taskQueue string
	now       func() time.Time
}

// NewTemporalReportWorkflows wires a Temporal client into the orchestrator.
func NewTemporalReportWorkflows(c client.Client) *TemporalReportWorkflows {
	return &TemporalReportWorkflows{client: c, taskQueue: reportworkflows.ReportCreationTaskQueue, now: time.Now}
}

// CreateReport validates the draft locally, then runs the creation workflow and
// waits for its result.
func (o *TemporalReportWorkflows) CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal report workflows not configured")
	}
	operator := domain.Operator{ID: actor.ID, Name: actor.FullName}
	if _, err := domain.NewReport(draft, operator, o.now()); err != nil {
		return nil, fmt.Errorf("%w: %w", reportsapp.ErrInvalidInput, err)
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("report-creation-%s-%s", actor.ID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		reportworkflows.ReportCreationWorkflowName,
		reportworkflows.ReportCreationWorkflowInput{
			Command: reportactivities.CreateReportInput{Draft: draft, Actor: actor},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		return nil, err
	}
	var report domain.Report
	if err := run.Get(ctx, &report); err != nil {
		return nil, translateError(err)
	}
	return &report, nil
}

// translateError restores the application sentinels carried as Temporal error types.
func translateError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case reportactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", reportsapp.ErrInvalidInput, appErr.Message())
	case reportactivities.ErrTypeCreationFailed:
		return fmt.Errorf("%w: %s", reportsapp.ErrCreationFailed, appErr.Message())
	default:
		return err
	}
}

// InlineReportWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineReportWorkflows struct {
	service ports.Service
}

// NewInlineReportWorkflows wraps the reports service for synchronous execution.
func NewInlineReportWorkflows(service ports.Service) *InlineReportWorkflows {
	return &InlineReportWorkflows{service: service}
}

// CreateReport delegates to the application service without durable orchestration.
func (o *InlineReportWorkflows) CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline report workflows not configured")
	}
	return o.service.CreateReport(ctx, draft, actor)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
