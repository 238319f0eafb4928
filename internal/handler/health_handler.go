package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tiagosv/llm-arena-api/internal/config"
	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

// ModelCatalog returns a handler serving the curated model list offered for a
// new evaluation.
func ModelCatalog(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := dto.ModelCatalogResponse{Models: cfg.Models}
		return utils.SendSuccess(c, "model catalog", payload)
	}
}
