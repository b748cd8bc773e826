package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amir656/polytrage/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Publisher publishes typed envelopes to Redis Streams
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a new stream publisher
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client: client,
	}
}

// Publish appends an envelope to the given stream
func (p *Publisher) Publish(ctx context.Context, streamKey string, env models.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"envelope": string(raw),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
	}

	return nil
}
