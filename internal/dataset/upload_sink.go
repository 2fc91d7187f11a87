package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Uploader stores a named object and returns its location.
type Uploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadSink stores each batch as a JSON Lines object.
type UploadSink struct {
	uploader Uploader
	logger   zerolog.Logger
}

// NewUploadSink constructs a sink backed by an object uploader.
func NewUploadSink(uploader Uploader, logger zerolog.Logger) (*UploadSink, error) {
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	return &UploadSink{
		uploader: uploader,
		logger:   logger.With().Str("component", "dataset_upload_sink").Logger(),
	}, nil
}

// Name implements Sink.
func (s *UploadSink) Name() string { return "cloudinary" }

// Push implements Sink.
func (s *UploadSink) Push(ctx context.Context, batch Batch) error {
	body, err := batch.JSONLines()
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	location, err := s.uploader.Upload(ctx, "results-"+batch.ID+".jsonl", bytes.NewReader(body))
	if err != nil {
		return err
	}

	s.logger.Info().Str("batch_id", batch.ID).Str("location", location).Msg("results batch uploaded")
	return nil
}
