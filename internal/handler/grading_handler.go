package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mathfluent-go-api/internal/dto"
	"github.com/noah-isme/mathfluent-go-api/internal/service"
	"github.com/noah-isme/mathfluent-go-api/internal/utils"
)

// GradingHandler serves the answer checking endpoint.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router. Extra handlers run before the endpoint.
func (h *GradingHandler) Register(router fiber.Router, before ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, before...), h.checkAnswer)
	router.Post("/check-answer", handlers...)
}

func (h *GradingHandler) checkAnswer(c *fiber.Ctx) error {
	var payload dto.CheckAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	verdict, err := h.service.CheckAnswer(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(verdict)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	if message, ok := validationMessage(err); ok {
		return utils.SendError(c, fiber.StatusBadRequest, message)
	}

	logger := requestLogger(h.logger, c)
	if errors.Is(err, service.ErrGradingUnavailable) {
		logger.Error().Err(err).Msg("all providers failed to check answer")
	} else {
		logger.Error().Err(err).Msg("unexpected error while checking answer")
	}
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to check answer")
}
