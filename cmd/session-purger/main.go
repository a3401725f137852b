package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdotrack/bdo-api/internal/app/api"
	userpostgres "github.com/bdotrack/bdo-api/internal/domains/users/adapters/persistence/postgres"
	platformobservability "github.com/bdotrack/bdo-api/internal/platform/observability"
	platformpostgres "github.com/bdotrack/bdo-api/internal/platform/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := platformobservability.NewLogger(platformobservability.SettingsFromEnv("bdo-session-purger"))
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.Postgres.DSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}
	store := userpostgres.NewSessionStore(db, cfg.SessionTTL())

	purge := func() {
		purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		removed, err := store.PurgeExpired(purgeCtx)
		if err != nil {
			logger.Error("failed to purge sessions", slog.String("error", err.Error()))
			return
		}
		logger.Info("session purge completed", slog.Int64("removed", removed))
	}

	interval := cfg.SessionPurgeInterval()
	logger.Info("session purger started", slog.Duration("interval", interval))
	purge()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("session purger stopped")
			return
		case <-ticker.C:
			purge()
		}
	}
}
