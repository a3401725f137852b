package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	reportsdomain "github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const tracerName = "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/observability/service"

// Service decorates the reports service with tracing, logging, and metrics.
type Service struct {
	inner   reportsports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core reports service.
func New(inner reportsports.Service, opts ...Option) reportsports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
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

func (s *Service) CreateReport(ctx context.Context, draft reportsdomain.Draft, actor identity.Actor) (*reportsdomain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "ReportsService.CreateReport",
		trace.WithAttributes(attribute.String("report.zone", draft.DeliveryZone), attribute.String("actor.id", actor.ID)))
	defer span.End()

	s.logInfo(ctx, "creating report", slog.String("report.zone", draft.DeliveryZone), slog.Int64("report.bdo_number", draft.BDONumber))
	result, err := s.inner.CreateReport(ctx, draft, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create report", slog.String("actor.id", actor.ID))
	}
	span.SetAttributes(attribute.String("report.id", result.ID))
	s.metrics.recordCreated(ctx, result.DeliveryZone)
	s.logInfo(ctx, "report created", slog.String("report.id", result.ID), slog.String("operator.id", result.Operator.ID))
	return result, nil
}

func (s *Service) ListReports(ctx context.Context, actor identity.Actor) ([]*reportsdomain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "ReportsService.ListReports",
		trace.WithAttributes(attribute.String("actor.role", string(actor.Role))))
	defer span.End()

	result, err := s.inner.ListReports(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list reports", slog.String("actor.id", actor.ID))
	}
	span.SetAttributes(attribute.Int("reports.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string, actor identity.Actor) (*reportsdomain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "ReportsService.UpdateStatus",
		trace.WithAttributes(attribute.String("report.id", id), attribute.String("report.proposed_status", status)))
	defer span.End()

	s.logInfo(ctx, "updating report status", slog.String("report.id", id), slog.String("status", status), slog.String("actor.id", actor.ID))
	result, err := s.inner.UpdateStatus(ctx, id, status, actor)
	if err != nil {
		if errors.Is(err, reportsdomain.ErrInvalidTransition) {
			s.metrics.recordRejected(ctx, status)
		}
		return nil, s.handleError(ctx, span, err, "failed to update report status", slog.String("report.id", id))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "report status updated", slog.String("report.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
	rejected    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("reports.service.created", metric.WithDescription("Number of reports created"))
	transitions, _ := m.Int64Counter("reports.service.transitions", metric.WithDescription("Number of accepted status transitions"))
	rejected, _ := m.Int64Counter("reports.service.transitions_rejected", metric.WithDescription("Number of rejected status transitions"))
	return serviceMetrics{created: created, transitions: transitions, rejected: rejected}
}

func (m serviceMetrics) recordCreated(ctx context.Context, zone string) {
	if m.created != nil {
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("report.zone", zone)))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status reportsdomain.DeliveryStatus) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("report.status", string(status))))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, proposed string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("report.proposed_status", proposed)))
	}
}

var _ reportsports.Service = (*Service)(nil)
