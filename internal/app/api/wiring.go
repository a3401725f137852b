package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	dashobs "github.com/bdotrack/bdo-api/internal/domains/dashboard/adapters/observability"
	dashapp "github.com/bdotrack/bdo-api/internal/domains/dashboard/application"
	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	reportsevents "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/events"
	reportskafka "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/events/kafka"
	reportsmemory "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/memory"
	reportsobs "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/observability"
	reportsmongo "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/persistence/mongo"
	reportspostgres "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/persistence/postgres"
	reportsapp "github.com/bdotrack/bdo-api/internal/domains/reports/application"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	usermemory "github.com/bdotrack/bdo-api/internal/domains/users/adapters/memory"
	userobs "github.com/bdotrack/bdo-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/bdotrack/bdo-api/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/bdotrack/bdo-api/internal/domains/users/adapters/sessions/redis"
	userjwt "github.com/bdotrack/bdo-api/internal/domains/users/adapters/tokens/jwt"
	userapp "github.com/bdotrack/bdo-api/internal/domains/users/application"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/platform/migrations"
	platformmongo "github.com/bdotrack/bdo-api/internal/platform/mongo"
	platformobservability "github.com/bdotrack/bdo-api/internal/platform/observability"
	platformpostgres "github.com/bdotrack/bdo-api/internal/platform/postgres"
	platformredis "github.com/bdotrack/bdo-api/internal/platform/redis"
)

// Backends holds the optional backing-service connections of a process. Any of
// them may be nil when not configured or unreachable.
type Backends struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Redis    *goredis.Client

	logger  *slog.Logger
	closers []func()
}

// OpenBackends dials every configured backing service. Failures are logged and
// leave the corresponding field nil so callers fall back to memory.
func OpenBackends(ctx context.Context, cfg Config, logger *slog.Logger) *Backends {
	b := &Backends{logger: logger}
	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.Postgres.DSN, logger)
	b.Postgres = db
	b.closers = append(b.closers, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("postgres schema migration failed", slog.String("error", err.Error()))
		}
	}
	mdb, closeMongo := platformmongo.ConnectOptional(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
	b.Mongo = mdb
	b.closers = append(b.closers, closeMongo)
	rdb, closeRedis := platformredis.ConnectOptional(ctx, cfg.Redis.Addr, logger)
	b.Redis = rdb
	b.closers = append(b.closers, closeRedis)
	return b
}

// Close releases every connection opened by OpenBackends.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// ReportRepository selects the report store. An explicitly requested backend
// that is unavailable is an error; auto mode prefers mongo, then postgres.
func (b *Backends) ReportRepository(ctx context.Context, cfg Config) (reportsports.Repository, error) {
	backend := cfg.Reports.Backend
	if backend == BackendAuto {
		switch {
		case b.Mongo != nil:
			backend = BackendMongo
		case b.Postgres != nil:
			backend = BackendPostgres
		default:
			b.logger.Warn("no report store configured, falling back to in-memory report repository")
			backend = BackendMemory
		}
	}
	switch backend {
	case BackendMongo:
		if b.Mongo == nil {
			return nil, errors.New("reports backend mongo is unavailable")
		}
		repo := reportsmongo.NewRepository(b.Mongo)
		if err := repo.EnsureIndexes(ctx); err != nil {
			b.logger.Warn("failed to ensure report indexes", slog.String("error", err.Error()))
		}
		b.logger.Info("report repository configured with mongo")
		return repo, nil
	case BackendPostgres:
		if b.Postgres == nil {
			return nil, errors.New("reports backend postgres is unavailable")
		}
		b.logger.Info("report repository configured with postgres")
		return reportspostgres.NewRepository(b.Postgres), nil
	default:
		return reportsmemory.NewRepository(), nil
	}
}

// UserRepository uses postgres when connected and memory otherwise.
func (b *Backends) UserRepository() userports.Repository {
	if b.Postgres != nil {
		return userpostgres.NewRepository(b.Postgres)
	}
	b.logger.Warn("POSTGRES_DSN not set, falling back to in-memory user repository")
	return usermemory.NewRepository()
}

// SessionStore selects where live sessions are tracked. Auto mode prefers
// redis, then postgres.
func (b *Backends) SessionStore(cfg Config) (userports.SessionStore, error) {
	backend := cfg.Sessions.Backend
	if backend == BackendAuto {
		switch {
		case b.Redis != nil:
			backend = BackendRedis
		case b.Postgres != nil:
			backend = BackendPostgres
		default:
			backend = BackendMemory
		}
	}
	switch backend {
	case BackendRedis:
		if b.Redis == nil {
			return nil, errors.New("sessions backend redis is unavailable")
		}
		return userredis.NewSessionStore(b.Redis, cfg.SessionTTL()), nil
	case BackendPostgres:
		if b.Postgres == nil {
			return nil, errors.New("sessions backend postgres is unavailable")
		}
		return userpostgres.NewSessionStore(b.Postgres, cfg.SessionTTL()), nil
	default:
		return usermemory.NewSessionStoreWithTTL(cfg.SessionTTL(), nil), nil
	}
}

// BuildReportService stacks the report lifecycle service with event publishing
// (when Kafka brokers are configured) and observability. The returned cleanup
// closes the Kafka client.
func BuildReportService(cfg Config, repo reportsports.Repository, instruments *platformobservability.Instruments, clientID string) (reportsports.Service, func()) {
	logger := instruments.Log()
	var service reportsports.Service = reportsapp.NewService(repo)
	cleanup := func() {}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := reportskafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, clientID, reportskafka.WithLogger(logger))
		if err != nil {
			logger.Warn("report events disabled", slog.String("error", err.Error()))
		} else {
			service = reportsevents.New(service, publisher, reportsevents.WithLogger(logger))
			cleanup = publisher.Close
			logger.Info("report events publishing to kafka", slog.String("topic", cfg.Kafka.Topic))
		}
	}
	service = reportsobs.New(
		service,
		reportsobs.WithLogger(logger),
		reportsobs.WithTracer(instruments.Tracer("internal.reports.application")),
		reportsobs.WithMeter(instruments.Meter("internal.reports.application")),
	)
	return service, cleanup
}

// BuildDashboardService wires the aggregation engine in the configured zone.
func BuildDashboardService(cfg Config, repo reportsports.Repository, instruments *platformobservability.Instruments) dashports.Service {
	return dashobs.New(
		dashapp.NewService(repo, dashapp.WithLocation(cfg.Location())),
		dashobs.WithLogger(instruments.Log()),
		dashobs.WithTracer(instruments.Tracer("internal.dashboard.application")),
		dashobs.WithMeter(instruments.Meter("internal.dashboard.application")),
	)
}

// BuildUserService wires authentication with the JWT issuer.
func BuildUserService(cfg Config, repo userports.Repository, sessions userports.SessionStore, instruments *platformobservability.Instruments) (userports.Service, error) {
	issuer, err := userjwt.NewIssuer(cfg.Auth.SecretKey, cfg.AccessTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("configure token issuer: %w", err)
	}
	return userobs.New(
		userapp.NewService(repo, sessions, issuer),
		userobs.WithLogger(instruments.Log()),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	), nil
}

// DialTemporal connects a Temporal client with tracing and slog wired in.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.Temporal.Disabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Log()),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
