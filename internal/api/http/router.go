package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-bot/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Webhook  *handlers.WebhookHandler
	Messages *handlers.MessagesHandler
	Actions  *handlers.ActionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// tracker callbacks; deliberately unauthenticated, see startup warning
	webhook := app.Group("/webhook")
	webhook.Post("/jira", cfg.Webhook.Receive)
	webhook.Get("/health", cfg.Webhook.Health)

	app.Post("/api/messages", cfg.Messages.Post)

	customers := app.Group("/customers")
	customers.Post("/:id/features", cfg.Actions.EnableFeature)
	customers.Post("/:id/subscription/plan", cfg.Actions.UpdatePlan)
	customers.Post("/:id/subscription/period", cfg.Actions.UpdatePeriod)
	customers.Post("/:id/signup/approve", cfg.Actions.ApproveSignup)
	customers.Get("/:id/signup", cfg.Actions.SignupStatus)
}
