package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/auth"
	"github.com/ledgerdesk/backoffice/internal/config"
	"github.com/ledgerdesk/backoffice/internal/events"
	"github.com/ledgerdesk/backoffice/internal/observability"
	"github.com/ledgerdesk/backoffice/internal/persistence"
	"github.com/ledgerdesk/backoffice/internal/service"
	"github.com/ledgerdesk/backoffice/internal/worker"
)

// Container holds the wired services.
type Container struct {
	Config     config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	Redis      *persistence.Redis
	Pool       *worker.Pool
	Tokens     *auth.TokenManager

	Auth          *service.AuthService
	Reports       *service.ReportService
	Notifications *service.NotificationService
}

// New wires everything that does not need the entity store. Background
// tasks started through the container run under ctx.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) *Container {
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	redis := persistence.NewRedis(cfg.Redis, logger)
	pool := worker.NewPool(ctx, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	notifications := service.NewNotificationService(dispatcher, redis, logger, cfg.Redis)
	worker.StartNotificationWorker(notifications)

	reports := service.NewReportService(service.ReportDependencies{
		Files:   persistence.NewLedgerFiles(cfg.Reports.Root),
		States:  service.NewReportStateStore(dispatcher, logger),
		Runner:  pool,
		Metrics: metrics,
		Logger:  logger,
	})

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		Dispatcher:    dispatcher,
		Redis:         redis,
		Pool:          pool,
		Tokens:        tokens,
		Auth:          service.NewAuthService(tokens),
		Reports:       reports,
		Notifications: notifications,
	}
}

// Tickets builds the ticket service on store.
func (c *Container) Tickets(store *Store) *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		TicketRepo:  store.Tickets,
		CompanyRepo: store.Companies,
		UserRepo:    store.Users,
		Dispatcher:  c.Dispatcher,
		Logger:      c.Logger,
	})
}

// Close releases external connections.
func (c *Container) Close() {
	c.Redis.Close()
}
