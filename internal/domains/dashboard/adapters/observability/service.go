package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const tracerName = "github.com/bdotrack/bdo-api/internal/domains/dashboard/adapters/observability/service"

// Service decorates the dashboard service with tracing, logging, and metrics.
type Service struct {
	inner   dashports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	queries metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.queries, _ = m.Int64Counter("dashboard.service.queries", metric.WithDescription("Number of dashboard aggregations served"))
	}
}

// New wraps the core dashboard service.
func New(inner dashports.Service, opts ...Option) dashports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ReportCounts(ctx context.Context, actor identity.Actor, query dashports.CountsQuery) (*dashports.Counts, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.ReportCounts", trace.WithAttributes(
		attribute.String("dashboard.filter", query.Filter),
		attribute.String("dashboard.status", query.Status),
		attribute.String("dashboard.operator_id", query.OperatorID),
	))
	defer span.End()

	result, err := s.inner.ReportCounts(ctx, actor, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to count reports", slog.String("filter", query.Filter))
	}
	span.SetAttributes(attribute.Int("dashboard.buckets", len(result.Rows)))
	s.record(ctx, "report_counts")
	s.logInfo(ctx, "report counts computed", slog.String("filter", query.Filter), slog.Int("buckets", len(result.Rows)))
	return result, nil
}

func (s *Service) AverageCompletionTimes(ctx context.Context, actor identity.Actor, zone string) ([]dashports.CompletionTime, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.AverageCompletionTimes", trace.WithAttributes(attribute.String("dashboard.zone", zone)))
	defer span.End()

	result, err := s.inner.AverageCompletionTimes(ctx, actor, zone)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute completion times", slog.String("zone", zone))
	}
	s.record(ctx, "average_completion_times")
	return result, nil
}

func (s *Service) StatusPercentages(ctx context.Context, actor identity.Actor, operatorID string) ([]dashports.StatusPercentage, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.StatusPercentages", trace.WithAttributes(attribute.String("dashboard.operator_id", operatorID)))
	defer span.End()

	result, err := s.inner.StatusPercentages(ctx, actor, operatorID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute status percentages", slog.String("operator.id", operatorID))
	}
	s.record(ctx, "status_percentages")
	return result, nil
}

func (s *Service) record(ctx context.Context, query string) {
	if s.queries != nil {
		s.queries.Add(ctx, 1, metric.WithAttributes(attribute.String("dashboard.query", query)))
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

var _ dashports.Service = (*Service)(nil)
