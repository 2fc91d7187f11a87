// Package dataset forwards submitted result batches to an external dataset store.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Batch is a results submission with its three positionally aligned arrays.
type Batch struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Questions     []string  `json:"questions"`
	Answers       []string  `json:"answers"`
	IsCorrect     []bool    `json:"is_correct"`
}

// Record is one row of a batch. Missing entries in a misaligned batch stay zero-valued.
type Record struct {
	Position  int    `json:"position"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	IsCorrect *bool  `json:"is_correct"`
}

// Len returns the length of the longest array.
func (b Batch) Len() int {
	n := len(b.Questions)
	if len(b.Answers) > n {
		n = len(b.Answers)
	}
	if len(b.IsCorrect) > n {
		n = len(b.IsCorrect)
	}
	return n
}

// Records zips the arrays into rows.
func (b Batch) Records() []Record {
	records := make([]Record, b.Len())
	for i := range records {
		records[i].Position = i
		if i < len(b.Questions) {
			records[i].Question = b.Questions[i]
		}
		if i < len(b.Answers) {
			records[i].Answer = b.Answers[i]
		}
		if i < len(b.IsCorrect) {
			value := b.IsCorrect[i]
			records[i].IsCorrect = &value
		}
	}
	return records
}

// JSONLines renders one record per line.
func (b Batch) JSONLines() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, record := range b.Records() {
		if err := encoder.Encode(record); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Sink pushes a batch to its backing store.
type Sink interface {
	Name() string
	Push(ctx context.Context, batch Batch) error
}

// ErrEmptyTarget is returned when a sink is built without a destination name.
var ErrEmptyTarget = errors.New("dataset target must not be empty")
