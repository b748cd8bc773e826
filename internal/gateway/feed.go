package gateway

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/gateway/hub"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/stream"
)

// Feed bridges the pipeline streams into the WebSocket hub. Every envelope
// from the subscribed streams is acked and broadcast as-is.
type Feed struct {
	consumer *stream.Consumer
	hub      *hub.Hub
	log      *logrus.Entry
}

// NewFeed creates a stream-to-hub feed
func NewFeed(consumer *stream.Consumer, h *hub.Hub) *Feed {
	return &Feed{
		consumer: consumer,
		hub:      h,
		log:      logging.Component("feed"),
	}
}

// Run consumes the opportunity and execution streams until the context is
// cancelled
func (f *Feed) Run(ctx context.Context) error {
	streams := []string{config.StreamOpportunities, config.StreamExecuted}

	for _, streamKey := range streams {
		go f.consume(ctx, streamKey)
	}

	<-ctx.Done()
	return ctx.Err()
}

func (f *Feed) consume(ctx context.Context, streamKey string) {
	log := f.log.WithField("stream", streamKey)
	log.Info("Feed consuming")

	messageCh, errorCh := f.consumer.Consume(ctx, streamKey)

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-messageCh:
			if !ok {
				return
			}

			f.hub.Broadcast(msg.Envelope)

			if err := f.consumer.Ack(ctx, msg.StreamKey, msg.ID); err != nil {
				log.WithError(err).WithField("message_id", msg.ID).Warn("Failed to ack message")
			}

		case err, ok := <-errorCh:
			if !ok {
				return
			}
			log.WithError(err).Error("Stream error")
		}
	}
}
