package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mathfluent-go-api/internal/dto"
	"github.com/noah-isme/mathfluent-go-api/internal/middleware"
	"github.com/noah-isme/mathfluent-go-api/internal/observability"
	"github.com/noah-isme/mathfluent-go-api/pkg/ai"
)

// ErrGradingUnavailable indicates that every configured provider failed to grade the answer.
var ErrGradingUnavailable = errors.New("grading unavailable")

// VisionQuerier runs the grading prompts against the model providers.
type VisionQuerier interface {
	OneShot(ctx context.Context, id ai.ProviderID, question, image string) ai.Result
	AnalysisThenDecision(ctx context.Context, question, image string) ai.Result
}

// GradingConfig selects the providers and mode used to grade answers.
type GradingConfig struct {
	Primary   ai.ProviderID
	Secondary ai.ProviderID
	Mode      ai.Mode
}

// GradingService checks handwritten answers.
type GradingService interface {
	CheckAnswer(ctx context.Context, req dto.CheckAnswerRequest) (dto.CheckAnswerResponse, error)
}

type gradingService struct {
	vision    VisionQuerier
	config    GradingConfig
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGradingService constructs the grading service.
func NewGradingService(vision VisionQuerier, cfg GradingConfig, validate *validator.Validate, logger zerolog.Logger) GradingService {
	if cfg.Primary == "" {
		cfg.Primary = ai.ProviderOpenAI
	}
	if cfg.Mode == "" {
		cfg.Mode = ai.ModeOneShot
	}

	return &gradingService{
		vision:    vision,
		config:    cfg,
		validator: validate,
		logger:    logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) CheckAnswer(ctx context.Context, req dto.CheckAnswerRequest) (dto.CheckAnswerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CheckAnswerResponse{}, err
	}

	logger := s.logger.With().Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).Logger()
	logger.Info().Int("image_length", len(req.Image)).Msg("received answer check request")

	result := s.primary(ctx, req)
	if !result.OK() && s.hasFallback() {
		logger.Warn().Err(result.Err).
			Str("primary", string(result.Provider)).
			Str("secondary", string(s.config.Secondary)).
			Msg("fallback to secondary provider")
		observability.GradingFallbacks().Inc()

		fallback := s.vision.OneShot(ctx, s.config.Secondary, req.Question, req.Image)
		if !fallback.OK() {
			logger.Error().Err(fallback.Err).Str("provider", string(fallback.Provider)).Msg("secondary provider failed")
			return dto.CheckAnswerResponse{}, fmt.Errorf("%w: %w", ErrGradingUnavailable, errors.Join(result.Err, fallback.Err))
		}
		result = fallback
	}

	if !result.OK() {
		logger.Error().Err(result.Err).Str("provider", string(result.Provider)).Msg("primary provider failed")
		return dto.CheckAnswerResponse{}, fmt.Errorf("%w: %w", ErrGradingUnavailable, result.Err)
	}

	correct := ai.IsCorrect(result.Token)
	observability.GradingVerdicts().WithLabelValues(verdictLabel(correct)).Inc()
	logger.Info().
		Str("provider", string(result.Provider)).
		Str("mode", string(result.Mode)).
		Str("token", result.Token).
		Bool("is_correct", correct).
		Msg("answer graded")

	return dto.CheckAnswerResponse{IsCorrect: correct}, nil
}

func (s *gradingService) primary(ctx context.Context, req dto.CheckAnswerRequest) ai.Result {
	if s.config.Mode == ai.ModeAnalysisThenDecision {
		return s.vision.AnalysisThenDecision(ctx, req.Question, req.Image)
	}
	return s.vision.OneShot(ctx, s.config.Primary, req.Question, req.Image)
}

func (s *gradingService) hasFallback() bool {
	return s.config.Secondary != "" && (s.config.Secondary != s.config.Primary || s.config.Mode == ai.ModeAnalysisThenDecision)
}

func verdictLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
