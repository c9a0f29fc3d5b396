/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the farmbook dashboard server: configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment)
  2. Open the SQLite snapshot store
  3. Load the aggregate (or fall back to the default farm)
  4. Start the reminder scheduler
  5. Start the HTTP server

ENVIRONMENT:
  FARMBOOK_PORT           HTTP port (default: 8080)
  FARMBOOK_DB             SQLite path (default: farmbook.db)
  FARMBOOK_REMINDERS      "true"/"false" (default: true)
  FARMBOOK_REMINDER_CRON  Cron schedule for the reminder scan (default: "0 7 * * *")
  FARMBOOK_CORS_ORIGINS   Comma-separated allowed origins

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for active
  requests (30s timeout), stop the scheduler, close the database.
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/greenacre/farmbook/api"
	"github.com/greenacre/farmbook/config"
	"github.com/greenacre/farmbook/farm"
	"github.com/greenacre/farmbook/store/sqlite"
)

func main() {
	envFile := flag.String("env", ".env", "env file to load (optional)")
	flag.Parse()

	cfg := config.Load(*envFile)

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	snapshots, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer snapshots.Close()

	store := farm.NewStore(context.Background(), snapshots, logger)
	handler := api.NewHandler(store, logger)
	router := api.NewRouter(handler, cfg.CORS.AllowedOrigins, logger)

	var scheduler *api.ReminderScheduler
	if cfg.Reminders.Enabled {
		scheduler, err = api.NewReminderScheduler(store, cfg.Reminders.CronSchedule, logger)
		if err != nil {
			logger.Fatal("failed to create reminder scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Storage.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
