// Package main is the entry point for the MT5 bridge, a small service that
// ingests position snapshots posted by MetaTrader 5 terminals and serves an
// aggregated dashboard: per-symbol volumes, break-even prices and account
// profit for every tracked account. All state lives in memory; a restart
// starts from an empty store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/mt5-bridge/internal/config"
	"github.com/aristath/mt5-bridge/internal/events"
	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
	"github.com/aristath/mt5-bridge/internal/scheduler"
	"github.com/aristath/mt5-bridge/internal/server"
	"github.com/aristath/mt5-bridge/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting MT5 bridge")

	if cfg.SharedSecret == "change-me" {
		log.Warn().Msg("MT5_SHARED_SECRET is the default value, set a real secret before exposing the service")
	}

	// Wire the core: store, event bus, snapshot service. The store is the only
	// mutable state in the process and is owned by the service.
	bus := events.NewBus(log)
	store := snapshots.NewStore(log)
	service := snapshots.NewService(store, bus, log)

	// Background jobs: periodic fleet stats line, stale account warnings
	sched := scheduler.New(log)
	if err := sched.AddJob("@every 1m", scheduler.NewFleetStatsJob(service, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register fleet stats job")
	}
	if err := sched.AddJob("@every 1m", scheduler.NewStaleAccountsJob(store, cfg.StaleAfter, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register stale accounts job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:             log,
		Config:          cfg,
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
		SnapshotService: service,
		Store:           store,
		EventBus:        bus,
	})

	// Start server in goroutine so the main thread can wait for signals
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with a bounded window for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
