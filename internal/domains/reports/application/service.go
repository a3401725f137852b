package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const (
	DefaultVisibilityAttempts = 5
	DefaultVisibilityDelay    = 100 * time.Millisecond
)

// Service orchestrates report lifecycle use cases.
type Service struct {
	repo     ports.Repository
	now      func() time.Time
	attempts int
	delay    time.Duration
}

type Option func(*Service)

// WithClock overrides the time source used for creation and delivery dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithVisibilityRetry sets how often and how far apart a freshly inserted
// report is re-read before creation is reported as failed.
func WithVisibilityRetry(attempts int, delay time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay >= 0 {
			s.delay = delay
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		now:      time.Now,
		attempts: DefaultVisibilityAttempts,
		delay:    DefaultVisibilityDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReport opens a pending report owned by actor.
func (s *Service) CreateReport(ctx context.Context, draft domain.Draft, actor identity.Actor) (*domain.Report, error) {
	operator := domain.Operator{ID: actor.ID, Name: actor.FullName}
	report, err := domain.NewReport(draft, operator, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	id, err := s.repo.Insert(ctx, report)
	if err != nil {
		return nil, err
	}
	return s.readAfterInsert(ctx, id)
}

// readAfterInsert waits for the store to expose a report it just accepted.
func (s *Service) readAfterInsert(ctx context.Context, id string) (*domain.Report, error) {
	for attempt := 1; attempt <= s.attempts; attempt++ {
		report, err := s.repo.FindByID(ctx, id)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return nil, fmt.Errorf("%w: report %s not readable after %d attempts", ErrCreationFailed, id, s.attempts)
}

// ListReports returns every report for admins and the actor's zone otherwise.
func (s *Service) ListReports(ctx context.Context, actor identity.Actor) ([]*domain.Report, error) {
	filter := ports.Filter{}
	if !actor.IsAdmin() {
		filter.Zone = actor.Zone
	}
	return s.repo.Find(ctx, filter)
}

// UpdateStatus moves a report forward. Any authenticated actor may call it;
// the transition rules are the only guard.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string, _ identity.Actor) (*domain.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	proposed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if err := report.Transition(proposed, s.now()); err != nil {
		return nil, err
	}
	update := ports.StatusUpdate{Status: report.Status}
	if proposed == domain.StatusCompleted {
		update.DeliveryDate = report.DeliveryDate
	}
	if err := s.repo.UpdateFields(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
