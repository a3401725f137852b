package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/bdotrack/bdo-api/internal/app/api"
	reportactivities "github.com/bdotrack/bdo-api/internal/durable/temporal/activities/reports"
	reportworkflows "github.com/bdotrack/bdo-api/internal/durable/temporal/workflows/reports"
	platformobservability "github.com/bdotrack/bdo-api/internal/platform/observability"
)

const serviceName = "bdo-worker"

func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.SettingsFromEnv(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends := api.OpenBackends(ctx, cfg, logger)
	defer backends.Close()
	repo, err := backends.ReportRepository(ctx, cfg)
	if err != nil {
		logger.Error("report repository unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	reportService, closeEvents := api.BuildReportService(cfg, repo, instruments, serviceName)
	defer closeEvents()
	activities := reportactivities.NewActivities(reportService)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, reportworkflows.ReportCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(reportworkflows.ReportCreationWorkflow, workflow.RegisterOptions{Name: reportworkflows.ReportCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateReport, activity.RegisterOptions{Name: reportactivities.CreateReportActivityName})

	logger.Info("worker listening", slog.String("taskQueue", reportworkflows.ReportCreationTaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
