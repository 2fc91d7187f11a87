package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mathfluent-go-api/internal/models"
)

// ResultRepository persists submitted result batches.
type ResultRepository interface {
	CreateBatch(ctx context.Context, batch *models.ResultBatch) error
	GetByBatchID(ctx context.Context, batchID string) (models.ResultBatch, error)
}

// NewResultRepository constructs a gorm-backed result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

type resultRepository struct {
	db *gorm.DB
}

func (r *resultRepository) CreateBatch(ctx context.Context, batch *models.ResultBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(batch).Error
	})
}

func (r *resultRepository) GetByBatchID(ctx context.Context, batchID string) (models.ResultBatch, error) {
	var batch models.ResultBatch
	err := r.db.WithContext(ctx).
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("batch_id = ?", batchID).
		First(&batch).Error
	return batch, err
}
