package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/service"
	"github.com/tiagosv/llm-arena-api/internal/utils"
)

// SessionHandler exposes the evaluation session flow over HTTP.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires session routes.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.discard)
	router.Post("/:id/prompt", h.submitPrompt)
	router.Post("/:id/ratings", h.saveRatings)
}

func (h *SessionHandler) create(c *fiber.Ctx) error {
	session := h.service.Create(c.Context())
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session created", session)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	session, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "session state", session)
}

func (h *SessionHandler) discard(c *fiber.Ctx) error {
	if err := h.service.Discard(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "session discarded", nil)
}

func (h *SessionHandler) submitPrompt(c *fiber.Ctx) error {
	var payload dto.SubmitPromptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.SubmitPrompt(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "prompt submitted", session)
}

func (h *SessionHandler) saveRatings(c *fiber.Ctx) error {
	var payload dto.SaveRatingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	saved, err := h.service.SaveRatings(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "evaluations saved", saved)
}

func (h *SessionHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrEmptyPrompt):
		return utils.SendError(c, fiber.StatusBadRequest, "please provide a prompt")
	case errors.Is(err, service.ErrNoModelsSelected):
		return utils.SendError(c, fiber.StatusBadRequest, "please select at least one model")
	case errors.Is(err, service.ErrNoPendingEvaluations):
		return utils.SendError(c, fiber.StatusBadRequest, "no pending evaluations to save")
	case errors.Is(err, service.ErrMissingRating):
		return utils.SendError(c, fiber.StatusBadRequest, "every response needs a rating")
	case errors.Is(err, service.ErrInvalidRating):
		return utils.SendError(c, fiber.StatusBadRequest, "ratings must be between 1 and 5")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	default:
		h.logger.Error().Err(err).Msg("session operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save evaluations")
	}
}
