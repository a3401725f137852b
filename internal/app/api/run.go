package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	bdoserver "github.com/bdotrack/bdo-api/go"

	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
	reportsworkflows "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/workflows"
	reportsports "github.com/bdotrack/bdo-api/internal/domains/reports/ports"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	platformobservability "github.com/bdotrack/bdo-api/internal/platform/observability"
)

const serviceName = "bdo-api"

// Run boots the BDO HTTP API with observability, repositories and workflows
// wired, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.SettingsFromEnv(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends := OpenBackends(ctx, cfg, logger)
	defer backends.Close()

	reportRepo, err := backends.ReportRepository(ctx, cfg)
	if err != nil {
		return err
	}
	reportService, closeEvents := BuildReportService(cfg, reportRepo, instruments, serviceName)
	defer closeEvents()
	dashService := BuildDashboardService(cfg, reportRepo, instruments)

	sessions, err := backends.SessionStore(cfg)
	if err != nil {
		return err
	}
	userService, err := BuildUserService(cfg, backends.UserRepository(), sessions, instruments)
	if err != nil {
		return err
	}

	var reportWorkflows reportsports.WorkflowOrchestrator = reportsworkflows.NewInlineReportWorkflows(reportService)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, creating reports inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		reportWorkflows = reportsworkflows.NewTemporalReportWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	}

	bdoserver.SetErrorLogger(logger)
	router := NewEngine(cfg, reportService, reportWorkflows, dashService, userService)
	return serve(ctx, ":"+cfg.Server.Port, router, logger)
}

// NewEngine builds the gin engine with recovery, tracing and CORS middleware
// registered ahead of the BDO routes.
func NewEngine(cfg Config, reports reportsports.Service, workflows reportsports.WorkflowOrchestrator, dash dashports.Service, users userports.Service) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), cors.New(corsConfig(cfg.Server.CORSOrigins)))
	return bdoserver.NewRouterWithGinEngine(engine, bdoserver.ApiHandleFunctions{
		Auth:       bdoserver.NewAuthMiddleware(users),
		ReportsAPI: bdoserver.NewReportsAPI(reports, workflows),
		DashAPI:    bdoserver.NewDashAPI(dash),
		UsersAPI:   bdoserver.NewUsersAPI(users),
	})
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowCredentials = false
		conf.AllowAllOrigins = true
	}
	return conf
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("BDO API listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("BDO API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
