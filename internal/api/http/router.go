package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Orders *handlers.OrdersHandler
	Admin  *handlers.AdminHandler
	Gate   *auth.GateMiddleware
}

// RegisterRoutes wires HTTP routes. The gate middleware runs on every
// request: it resolves the session once and enforces the admin and checkout
// route policies before any handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/validate-token", cfg.Auth.ValidateToken)

	orderGroup := app.Group("/order", auth.RequireSession())
	orderGroup.Get("/history", cfg.Orders.History)
	orderGroup.Get("/id/:id", cfg.Orders.GetByID)
	orderGroup.Post("/pay", cfg.Orders.Pay)

	// Gate policy already guards these prefixes; handlers re-check roles.
	app.Get("/checkout/summary", cfg.Orders.CheckoutSummary)

	adminGroup := app.Group("/admin")
	adminGroup.Get("/dashboard", cfg.Admin.Dashboard)
	adminGroup.Get("/orders", cfg.Admin.ListOrders)
	adminGroup.Get("/orders/:id", cfg.Admin.GetOrder)
}
