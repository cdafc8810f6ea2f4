package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/archivus/archive-service/internal/models"
)

const TopicDocumentReviewed = "document.reviewed"

// DocumentReviewedEvent is published after a review transaction commits.
// The points subscriber consumes it to award the uploader.
type DocumentReviewedEvent struct {
	DocumentID uint                  `json:"document_id"`
	UploaderID uint                  `json:"uploader_id"`
	ReviewerID uint                  `json:"reviewer_id"`
	Status     models.DocumentStatus `json:"status"`
	ReviewedAt time.Time             `json:"reviewed_at"`
}

// Publisher hides the message bus from the services.
type Publisher interface {
	PublishDocumentReviewed(ctx context.Context, event DocumentReviewedEvent) error
	Close() error
}

// Bus is the in-process pub/sub carrying review events. There is no
// external broker in this system; subscribers run in the same process.
type Bus struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
		logger: logger,
	}
}

func (b *Bus) PublishDocumentReviewed(ctx context.Context, event DocumentReviewedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal review event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.channel.Publish(TopicDocumentReviewed, msg); err != nil {
		return fmt.Errorf("publish review event: %w", err)
	}
	return nil
}

// SubscribeDocumentReviewed delivers review events to handler until ctx is
// cancelled. Handler errors are logged and the message is acked anyway;
// point awards are best-effort and must not wedge the bus.
func (b *Bus) SubscribeDocumentReviewed(ctx context.Context, handler func(context.Context, DocumentReviewedEvent) error) error {
	messages, err := b.channel.Subscribe(ctx, TopicDocumentReviewed)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicDocumentReviewed, err)
	}

	go func() {
		for msg := range messages {
			var event DocumentReviewedEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("dropping malformed review event", "error", err, "message_id", msg.UUID)
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), event); err != nil {
				b.logger.Error("review event handler failed",
					"error", err,
					"document_id", event.DocumentID)
			}
			msg.Ack()
		}
	}()

	return nil
}

func (b *Bus) Close() error {
	return b.channel.Close()
}
