package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tiagosv/llm-arena-api/internal/service"
	"github.com/tiagosv/llm-arena-api/internal/utils"
)

// EvaluationHandler serves the review view of saved evaluations.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires review routes.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/refresh", h.refresh)
}

func (h *EvaluationHandler) list(c *fiber.Ctx) error {
	items, err := h.service.ListEvaluations(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load evaluations")
	}

	return utils.SendSuccess(c, "saved evaluations", items)
}

func (h *EvaluationHandler) refresh(c *fiber.Ctx) error {
	items, err := h.service.Refresh(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to refresh evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load evaluations")
	}

	return utils.SendSuccess(c, "saved evaluations", items)
}
