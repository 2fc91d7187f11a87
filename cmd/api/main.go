package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mathfluent-go-api/internal/config"
	"github.com/noah-isme/mathfluent-go-api/internal/database"
	"github.com/noah-isme/mathfluent-go-api/internal/dataset"
	"github.com/noah-isme/mathfluent-go-api/internal/handler"
	"github.com/noah-isme/mathfluent-go-api/internal/middleware"
	"github.com/noah-isme/mathfluent-go-api/internal/repository"
	"github.com/noah-isme/mathfluent-go-api/internal/router"
	"github.com/noah-isme/mathfluent-go-api/internal/service"
	"github.com/noah-isme/mathfluent-go-api/internal/utils"
	"github.com/noah-isme/mathfluent-go-api/pkg/ai"
	cloud "github.com/noah-isme/mathfluent-go-api/pkg/cloudinary"
)

const bodyLimit = 16 * 1024 * 1024

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	providers, err := buildProviders(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create ai providers")
	}
	vision := ai.NewVisionClient(logger, providers...)
	if !vision.Has(cfg.AIPrimary) {
		logger.Fatal().Str("provider", string(cfg.AIPrimary)).Msg("primary ai provider is not configured")
	}

	sink, closeSink, err := buildSink(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("sink", cfg.DatasetSink).Msg("failed to create dataset sink")
	}
	defer closeSink()

	validate := validator.New(validator.WithRequiredStructEnabled())

	gradingService := service.NewGradingService(vision, service.GradingConfig{
		Primary:   cfg.AIPrimary,
		Secondary: cfg.AISecondary,
		Mode:      cfg.AIMode,
	}, validate, logger)
	resultsService := service.NewResultsService(sink, cfg.DatasetPushEnabled, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    bodyLimit,
		ErrorHandler: utils.ErrorHandler,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AppEnv != "production",
	})
	router.Register(app, cfg, router.Dependencies{
		GradingHandler: handler.NewGradingHandler(gradingService, logger),
		ResultsHandler: handler.NewResultsHandler(resultsService, logger),
	})

	logger.Info().
		Str("primary", string(cfg.AIPrimary)).
		Str("secondary", string(cfg.AISecondary)).
		Str("mode", string(cfg.AIMode)).
		Bool("dataset_push_enabled", cfg.DatasetPushEnabled).
		Str("dataset_sink", sink.Name()).
		Msg("mathfluent api configured")

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func buildProviders(cfg config.Config, logger zerolog.Logger) ([]ai.Provider, error) {
	var providers []ai.Provider

	if cfg.OpenAIAPIKey != "" {
		provider, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AITimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	if cfg.AnthropicAPIKey != "" {
		provider, err := ai.NewAnthropicProvider(ai.AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.AITimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

// buildSink returns the configured dataset sink and a function releasing its connection.
// A disabled push always uses the log sink so no backend is dialled.
func buildSink(ctx context.Context, cfg config.Config, logger zerolog.Logger) (dataset.Sink, func(), error) {
	noop := func() {}
	if !cfg.DatasetPushEnabled {
		return dataset.NewLogSink(logger), noop, nil
	}

	switch cfg.DatasetSink {
	case config.SinkLog:
		return dataset.NewLogSink(logger), noop, nil

	case config.SinkPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		sink, err := dataset.NewRepositorySink(repository.NewResultRepository(db))
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return sink, closeDB, nil

	case config.SinkRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		closeRedis := func() { _ = client.Close() }
		sink, err := dataset.NewRedisSink(client, cfg.DatasetTarget)
		if err != nil {
			closeRedis()
			return nil, noop, err
		}
		return sink, closeRedis, nil

	case config.SinkNATS:
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName, cfg.DatasetToken)
		if err != nil {
			return nil, noop, err
		}
		sink, err := dataset.NewNATSSink(conn, cfg.DatasetTarget)
		if err != nil {
			conn.Close()
			return nil, noop, err
		}
		return sink, func() { _ = conn.Drain() }, nil

	case config.SinkCloudinary:
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.DatasetTarget,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		sink, err := dataset.NewUploadSink(uploader, logger)
		if err != nil {
			return nil, noop, err
		}
		return sink, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown dataset sink %q", cfg.DatasetSink)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
