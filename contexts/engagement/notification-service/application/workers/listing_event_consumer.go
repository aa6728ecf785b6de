package workers

import (
	"context"
	"log/slog"

	"caravan/contexts/engagement/notification-service/application"
	"caravan/contexts/engagement/notification-service/ports"
	"caravan/internal/shared/events"
)

// ListingEventConsumer drains the listing topic and hands each envelope to
// the notification service. It runs detached from the request flow, so a
// handling failure is logged and the stream continues.
type ListingEventConsumer struct {
	Source  ports.EventSource
	Service application.Service
	Buffer  int
	Logger  *slog.Logger
}

func (c ListingEventConsumer) Run(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	stream := c.Source.Subscribe(events.TopicListingEvents, c.Buffer)

	logger.Info("listing event consumer started",
		"event", "notification_consumer_started",
		"module", "engagement/notification-service",
		"layer", "worker",
		"topic", events.TopicListingEvents,
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case envelope, ok := <-stream:
			if !ok {
				logger.Info("listing event stream closed",
					"event", "notification_consumer_stopped",
					"module", "engagement/notification-service",
					"layer", "worker",
				)
				return nil
			}
			if err := c.Service.HandleListingEvent(ctx, envelope); err != nil {
				logger.Error("listing event handling failed",
					"event", "notification_consumer_handle_failed",
					"module", "engagement/notification-service",
					"layer", "worker",
					"event_id", envelope.EventID,
					"event_type", envelope.EventType,
					"error", err.Error(),
				)
			}
		}
	}
}
