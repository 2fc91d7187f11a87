package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mathfluent-go-api/internal/dataset"
	"github.com/noah-isme/mathfluent-go-api/internal/dto"
	"github.com/noah-isme/mathfluent-go-api/internal/middleware"
	"github.com/noah-isme/mathfluent-go-api/internal/observability"
)

// ErrResultsSinkFailed indicates the dataset sink rejected the batch.
var ErrResultsSinkFailed = errors.New("results sink failed")

const (
	resultsSubmittedMessage = "Results submitted successfully"
	resultsSkippedMessage   = "Dataset push disabled, results not submitted"
)

// ResultsService forwards graded results to the dataset sink.
type ResultsService interface {
	SubmitResults(ctx context.Context, req dto.SubmitResultsRequest) (dto.MessageResponse, error)
}

type resultsService struct {
	sink      dataset.Sink
	enabled   bool
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResultsService constructs the results service. When enabled is false the sink is never called.
func NewResultsService(sink dataset.Sink, enabled bool, validate *validator.Validate, logger zerolog.Logger) ResultsService {
	return &resultsService{
		sink:      sink,
		enabled:   enabled && sink != nil,
		validator: validate,
		logger:    logger.With().Str("component", "results_service").Logger(),
		now:       time.Now,
	}
}

func (s *resultsService) SubmitResults(ctx context.Context, req dto.SubmitResultsRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}

	correlationID := middleware.CorrelationIDFromContext(ctx)
	logger := s.logger.With().Str("correlation_id", correlationID).Logger()

	if !s.enabled {
		logger.Info().Int("questions", len(req.Questions)).Msg("dataset push disabled, skipping results submission")
		return dto.MessageResponse{Message: resultsSkippedMessage}, nil
	}

	if !req.Aligned() {
		logger.Warn().
			Int("questions", len(req.Questions)).
			Int("answers", len(req.Answers)).
			Int("is_correct", len(req.IsCorrect)).
			Msg("results arrays have different lengths")
	}

	batch := dataset.Batch{
		ID:            uuid.NewString(),
		CorrelationID: correlationID,
		SubmittedAt:   s.now().UTC(),
		Questions:     req.Questions,
		Answers:       req.Answers,
		IsCorrect:     req.IsCorrect,
	}

	if err := s.sink.Push(ctx, batch); err != nil {
		observability.DatasetPushes().WithLabelValues(s.sink.Name(), "failure").Inc()
		logger.Error().Err(err).Str("sink", s.sink.Name()).Str("batch_id", batch.ID).Msg("failed to push results batch")
		return dto.MessageResponse{}, fmt.Errorf("%w: %w", ErrResultsSinkFailed, err)
	}

	observability.DatasetPushes().WithLabelValues(s.sink.Name(), "success").Inc()
	logger.Info().Str("sink", s.sink.Name()).Str("batch_id", batch.ID).Int("size", batch.Len()).Msg("results batch pushed")

	return dto.MessageResponse{Message: resultsSubmittedMessage}, nil
}
