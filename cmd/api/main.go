package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ledgerdesk/backoffice/internal/api/http"
	"github.com/ledgerdesk/backoffice/internal/api/http/handlers"
	"github.com/ledgerdesk/backoffice/internal/app"
	"github.com/ledgerdesk/backoffice/internal/auth"
	"github.com/ledgerdesk/backoffice/internal/config"
	"github.com/ledgerdesk/backoffice/internal/observability"
	"github.com/ledgerdesk/backoffice/internal/persistence"
	"github.com/ledgerdesk/backoffice/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := app.OpenStore(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	if cfg.Postgres.RunMigrations {
		if err := store.Migrate(ctx, persistence.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	container := app.New(ctx, *cfg, logger)
	defer container.Close()

	scheduler, err := worker.NewReportScheduler(cfg.Reports.Schedule, container.Reports, logger)
	if err != nil {
		logger.Fatal("failed to schedule reports", zap.Error(err))
	}
	scheduler.Start()

	var authMiddleware *auth.AuthMiddleware
	if cfg.Auth.Enabled {
		authMiddleware = auth.NewAuthMiddleware(container.Tokens)
	}

	fiberApp := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(fiberApp, logger, container.Metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(fiberApp, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, container.Redis, container.Metrics),
		Tickets:        handlers.NewTicketsHandler(container.Tickets(store)),
		Reports:        handlers.NewReportsHandler(container.Reports),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := fiberApp.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	<-scheduler.Stop().Done()
	_ = fiberApp.Shutdown()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	if err := container.Pool.Wait(drainCtx); err != nil {
		logger.Warn("report pipelines still running at shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
