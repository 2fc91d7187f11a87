package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends each batch as one entry to a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink constructs a sink writing to the given stream key.
func NewRedisSink(client *redis.Client, stream string) (*RedisSink, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if stream == "" {
		return nil, ErrEmptyTarget
	}
	return &RedisSink{client: client, stream: stream}, nil
}

// Name implements Sink.
func (s *RedisSink) Name() string { return "redis" }

// Push implements Sink.
func (s *RedisSink) Push(ctx context.Context, batch Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"batch_id": batch.ID,
			"size":     batch.Len(),
			"payload":  string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
