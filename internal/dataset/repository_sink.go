package dataset

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/noah-isme/mathfluent-go-api/internal/models"
	"github.com/noah-isme/mathfluent-go-api/internal/repository"
)

// RepositorySink stores batches in the relational results tables.
type RepositorySink struct {
	repo repository.ResultRepository
}

// NewRepositorySink constructs a sink backed by the result repository.
func NewRepositorySink(repo repository.ResultRepository) (*RepositorySink, error) {
	if repo == nil {
		return nil, fmt.Errorf("result repository is required")
	}
	return &RepositorySink{repo: repo}, nil
}

// Name implements Sink.
func (s *RepositorySink) Name() string { return "postgres" }

// Push implements Sink.
func (s *RepositorySink) Push(ctx context.Context, batch Batch) error {
	records := batch.Records()
	model := models.ResultBatch{
		BatchID:       batch.ID,
		CorrelationID: batch.CorrelationID,
		Size:          len(records),
		SubmittedAt:   batch.SubmittedAt,
		Meta: datatypes.JSONMap{
			"questions":  len(batch.Questions),
			"answers":    len(batch.Answers),
			"is_correct": len(batch.IsCorrect),
		},
		Records: make([]models.ResultRecord, 0, len(records)),
	}
	for _, record := range records {
		model.Records = append(model.Records, models.ResultRecord{
			Position:  record.Position,
			Question:  record.Question,
			Answer:    record.Answer,
			IsCorrect: record.IsCorrect,
		})
	}

	if err := s.repo.CreateBatch(ctx, &model); err != nil {
		return fmt.Errorf("store batch %s: %w", batch.ID, err)
	}
	return nil
}
