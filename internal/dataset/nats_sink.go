package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// NATSSink publishes each batch as a JSON message on a subject.
type NATSSink struct {
	conn    Publisher
	subject string
}

// NewNATSSink constructs a sink publishing on subject.
func NewNATSSink(conn Publisher, subject string) (*NATSSink, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats connection is required")
	}
	if subject == "" {
		return nil, ErrEmptyTarget
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

// Name implements Sink.
func (s *NATSSink) Name() string { return "nats" }

// Push publishes the batch and flushes so that connection errors surface to the caller.
func (s *NATSSink) Push(ctx context.Context, batch Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	msg := nats.NewMsg(s.subject)
	msg.Data = payload
	msg.Header.Set("Batch-Id", batch.ID)
	if batch.CorrelationID != "" {
		msg.Header.Set("X-Correlation-ID", batch.CorrelationID)
	}

	if err := s.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", s.subject, err)
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", s.subject, err)
	}
	return nil
}
