package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mathfluent-go-api/internal/config"
	"github.com/noah-isme/mathfluent-go-api/internal/handler"
	"github.com/noah-isme/mathfluent-go-api/internal/middleware"
	"github.com/noah-isme/mathfluent-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GradingHandler *handler.GradingHandler
	ResultsHandler *handler.ResultsHandler
	// GradingLimiter overrides the per-IP limiter on /check-answer. Nil uses the configured limit.
	GradingLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/", handler.Welcome(cfg))
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler(nil))

	if deps.GradingHandler != nil {
		limiter := deps.GradingLimiter
		if limiter == nil {
			limiter = middleware.RateLimit("check-answer", cfg.RateLimitMax, cfg.RateLimitWindow)
		}
		deps.GradingHandler.Register(app, limiter)
	}

	if deps.ResultsHandler != nil {
		deps.ResultsHandler.Register(app)
	}
}
