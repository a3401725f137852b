package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// Service publishes report events after the wrapped service commits a change.
// Publish failures are logged; the change itself has already been stored.
type Service struct {
	inner     ports.Service
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wraps inner. A nil publisher disables publishing.
func New(inner ports.Service, publisher ports.EventPublisher, opts ...Option) ports.Service {
	if publisher == nil {
		publisher = ports.NoopEventPublisher{}
	}
	s := &Service{inner: inner, publisher: publisher, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error) {
	report, err := s.inner.CreateReport(ctx, draft, actor)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.ReportCreated{
		BaseEvent:    domain.BaseEvent{ReportID: report.ID, Timestamp: s.now()},
		OperatorID:   report.Operator.ID,
		DeliveryZone: report.DeliveryZone,
		Airline:      report.Airline,
		BDONumber:    report.BDONumber,
	})
	return report, nil
}

func (s *Service) ListReports(ctx context.Context, actor identity.Actor) ([]*domain.Report, error) {
	return s.inner.ListReports(ctx, actor)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string, actor identity.Actor) (*domain.Report, error) {
	report, err := s.inner.UpdateStatus(ctx, id, status, actor)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.ReportStatusChanged{
		BaseEvent:    domain.BaseEvent{ReportID: report.ID, Timestamp: s.now()},
		Status:       report.Status,
		DeliveryDate: report.DeliveryDate,
		ChangedBy:    actor.ID,
	})
	return report, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish report event",
			slog.String("event", event.EventName()),
			slog.String("report.id", event.AggregateID()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
