package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mathfluent-go-api/internal/dto"
	"github.com/noah-isme/mathfluent-go-api/internal/service"
	"github.com/noah-isme/mathfluent-go-api/internal/utils"
)

// ResultsHandler serves the results submission endpoint.
type ResultsHandler struct {
	service service.ResultsService
	logger  zerolog.Logger
}

// NewResultsHandler builds a results handler instance.
func NewResultsHandler(service service.ResultsService, logger zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{
		service: service,
		logger:  logger.With().Str("component", "results_handler").Logger(),
	}
}

// Register attaches the routes to the provided router.
func (h *ResultsHandler) Register(router fiber.Router) {
	router.Post("/submit-results", h.submit)
}

func (h *ResultsHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitResultsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ack, err := h.service.SubmitResults(c.UserContext(), payload)
	if err != nil {
		if message, ok := validationMessage(err); ok {
			return utils.SendError(c, fiber.StatusBadRequest, message)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit results")
	}

	return c.JSON(ack)
}
