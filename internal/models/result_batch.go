package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResultBatch is one submitted batch of graded answers.
type ResultBatch struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	BatchID       string            `gorm:"size:64;uniqueIndex;not null" json:"batch_id"`
	CorrelationID string            `gorm:"size:128" json:"correlation_id"`
	Size          int               `gorm:"not null" json:"size"`
	Meta          datatypes.JSONMap `json:"meta"`
	SubmittedAt   time.Time         `gorm:"not null" json:"submitted_at"`
	CreatedAt     time.Time         `json:"created_at"`
	Records       []ResultRecord    `gorm:"foreignKey:BatchRefID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"records"`
}

// ResultRecord is a single question/answer/verdict triple within a batch.
type ResultRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BatchRefID uint   `gorm:"index;not null" json:"batch_ref_id"`
	Position   int    `gorm:"not null" json:"position"`
	Question   string `gorm:"type:text" json:"question"`
	Answer     string `gorm:"type:text" json:"answer"`
	IsCorrect  *bool  `json:"is_correct"`
}
