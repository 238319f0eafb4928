package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiagosv/llm-arena-api/internal/config"
	"github.com/tiagosv/llm-arena-api/internal/handler"
	"github.com/tiagosv/llm-arena-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SessionHandler    *handler.SessionHandler
	EvaluationHandler *handler.EvaluationHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/models", handler.ModelCatalog(cfg))

	if deps.SessionHandler != nil {
		sessions := api.Group("/sessions")
		deps.SessionHandler.Register(sessions)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations")
		deps.EvaluationHandler.Register(evaluations)
	}
}
