package dataset

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes each batch to the structured log. It never fails.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink constructs a logging sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "dataset_log_sink").Logger()}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Push implements Sink.
func (s *LogSink) Push(_ context.Context, batch Batch) error {
	s.logger.Info().
		Str("batch_id", batch.ID).
		Str("correlation_id", batch.CorrelationID).
		Strs("questions", batch.Questions).
		Strs("answers", batch.Answers).
		Interface("is_correct", batch.IsCorrect).
		Msg("results batch received")
	return nil
}
