package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mathfluent-go-api/internal/config"
	"github.com/noah-isme/mathfluent-go-api/internal/dto"
	"github.com/noah-isme/mathfluent-go-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// Welcome answers the root liveness probe.
func Welcome(cfg config.Config) fiber.Handler {
	message := "Welcome to " + cfg.AppName
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.MessageResponse{Message: message})
	}
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
