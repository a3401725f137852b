package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userapp "github.com/bdotrack/bdo-api/internal/domains/users/application"
	userdomain "github.com/bdotrack/bdo-api/internal/domains/users/domain"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const tracerName = "github.com/bdotrack/bdo-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, username, password string) (*userports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	session, err := s.inner.Login(ctx, username, password)
	if err != nil {
		reason := loginFailureReason(err)
		s.metrics.recordLoginFailure(ctx, reason)
		span.SetAttributes(attribute.String("user.login_failure", reason))
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("username", username), slog.String("reason", reason))
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "user logged in", slog.String("username", username), slog.String("role", string(session.Role)))
	return session, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	user, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("user.username", user.Username), attribute.String("user.role", string(user.Role)))
	return user, nil
}

func (s *Service) Logout(ctx context.Context, username string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	if err := s.inner.Logout(ctx, username); err != nil {
		return s.handleError(ctx, span, err, "logout failed", slog.String("username", username))
	}
	s.logInfo(ctx, "user logged out", slog.String("username", username))
	return nil
}

func (s *Service) List(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()
	users, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, actor identity.Actor, input userports.NewUserInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser", trace.WithAttributes(
		attribute.String("user.role", string(input.Role)),
		attribute.String("user.zone", input.Zone),
		attribute.String("actor.username", actor.Username),
	))
	defer span.End()
	s.logInfo(ctx, "creating user", slog.String("role", string(input.Role)), slog.String("zone", input.Zone))
	result, err := s.inner.CreateUser(ctx, actor, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create user", slog.String("actor", actor.Username))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "user created", slog.String("username", result.Username))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	usersCreated  metric.Int64Counter
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("users.service.created", metric.WithDescription("Number of users created"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	failures, _ := m.Int64Counter("users.service.login_failures", metric.WithDescription("Number of rejected logins"))
	return serviceMetrics{usersCreated: created, logins: logins, loginFailures: failures}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.usersCreated != nil {
		m.usersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginFailure(ctx context.Context, reason string) {
	if m.loginFailures != nil {
		m.loginFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// loginFailureReason buckets login errors into a low-cardinality label.
func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, userapp.ErrIncorrectUsername):
		return "unknown_user"
	case errors.Is(err, userapp.ErrIncorrectPassword):
		return "bad_password"
	case errors.Is(err, userapp.ErrInactiveUser):
		return "inactive"
	default:
		return "error"
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
