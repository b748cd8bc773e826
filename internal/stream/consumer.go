package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amir656/polytrage/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Consumer consumes typed envelopes from Redis Streams via a consumer group
type Consumer struct {
	client     *redis.Client
	consumerID string
	groupName  string
}

// Message is a stream message carrying a decoded envelope
type Message struct {
	ID        string
	StreamKey string
	Envelope  models.Envelope
}

// NewConsumer creates a new stream consumer
func NewConsumer(client *redis.Client, consumerID, groupName string) *Consumer {
	return &Consumer{
		client:     client,
		consumerID: consumerID,
		groupName:  groupName,
	}
}

// Consume starts consuming from a stream and returns channels for messages and errors
func (c *Consumer) Consume(ctx context.Context, streamKey string) (<-chan Message, <-chan error) {
	messageCh := make(chan Message, 100)
	errorCh := make(chan error, 10)

	// Create consumer group if it doesn't exist
	err := c.client.XGroupCreateMkStream(ctx, streamKey, c.groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		errorCh <- fmt.Errorf("failed to create consumer group: %w", err)
		close(messageCh)
		close(errorCh)
		return messageCh, errorCh
	}

	go func() {
		defer close(messageCh)
		defer close(errorCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    c.groupName,
					Consumer: c.consumerID,
					Streams:  []string{streamKey, ">"},
					Count:    10,
					Block:    1 * time.Second,
				}).Result()

				if err != nil {
					if err == redis.Nil {
						// No messages, continue
						continue
					}
					if ctx.Err() != nil {
						return
					}
					errorCh <- fmt.Errorf("error reading from stream: %w", err)
					time.Sleep(1 * time.Second)
					continue
				}

				for _, s := range streams {
					for _, xmsg := range s.Messages {
						msg, err := parseMessage(streamKey, xmsg)
						if err != nil {
							errorCh <- fmt.Errorf("error parsing message %s: %w", xmsg.ID, err)
							continue
						}

						messageCh <- msg
					}
				}
			}
		}
	}()

	return messageCh, errorCh
}

// parseMessage decodes a Redis stream entry into an envelope Message
func parseMessage(streamKey string, xmsg redis.XMessage) (Message, error) {
	raw, ok := xmsg.Values["envelope"].(string)
	if !ok {
		return Message{}, fmt.Errorf("missing 'envelope' field in message")
	}

	var env models.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Message{}, fmt.Errorf("failed to parse envelope JSON: %w", err)
	}

	return Message{
		ID:        xmsg.ID,
		StreamKey: streamKey,
		Envelope:  env,
	}, nil
}

// Ack acknowledges a message as processed
func (c *Consumer) Ack(ctx context.Context, streamKey, messageID string) error {
	return c.client.XAck(ctx, streamKey, c.groupName, messageID).Err()
}
