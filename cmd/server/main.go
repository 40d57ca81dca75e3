package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluclinic/appointment-service/internal/app"
	"github.com/bluclinic/appointment-service/internal/config"
	"github.com/bluclinic/appointment-service/internal/controller"
	"github.com/bluclinic/appointment-service/internal/repository"
	"github.com/bluclinic/appointment-service/internal/repository/memory"
	"github.com/bluclinic/appointment-service/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store service.AppointmentStore
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store = memory.NewAppointmentRepository()
	default:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create connection pool", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		store = repository.NewAppointmentRepository(pool)
	}

	appointments := service.NewAppointmentService(store, logger)

	sweeper := app.NewSweeper(appointments, cfg.SweepInterval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           controller.NewRouter(appointments, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Sugar().Infow("Starting appointment service",
		"addr", cfg.HTTPAddr,
		"environment", cfg.Environment,
		"storage", cfg.StorageDriver,
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Appointment service stopped")
}
