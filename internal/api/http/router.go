package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerdesk/backoffice/internal/api/http/handlers"
	"github.com/ledgerdesk/backoffice/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Reports *handlers.ReportsHandler
	// AuthMiddleware is nil when authentication is disabled.
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1")
	write := []fiber.Handler{}
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Handle)
		write = append(write, auth.RequireRole(auth.Writers()...))
	}

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", append(write, cfg.Tickets.CreateTicket)...)

	api.Get("/reports", cfg.Reports.States)
	api.Post("/reports", append(write, cfg.Reports.Generate)...)
}
