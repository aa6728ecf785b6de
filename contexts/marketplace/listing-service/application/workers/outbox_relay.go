package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "caravan/contexts/marketplace/listing-service/application"
	"caravan/contexts/marketplace/listing-service/ports"
	"caravan/internal/shared/events"
)

// OutboxRelay publishes pending listing envelopes to the message bus. A row
// is marked published only after the bus accepted it; the relay stops on the
// first failure so the next cycle reprocesses remaining rows.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("listing outbox list failed",
			"event", "listing_outbox_list_failed",
			"module", "marketplace/listing-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			// Undecodable rows would wedge the relay forever; park them.
			logger.Error("listing outbox decode failed",
				"event", "listing_outbox_decode_failed",
				"module", "marketplace/listing-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkOutboxFailed(ctx, row.OutboxID); err != nil {
				return err
			}
			continue
		}
		if err := r.Publisher.Publish(ctx, events.TopicListingEvents, event); err != nil {
			logger.Error("listing outbox publish failed",
				"event", "listing_outbox_publish_failed",
				"module", "marketplace/listing-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("listing outbox mark published failed",
				"event", "listing_outbox_mark_published_failed",
				"module", "marketplace/listing-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("listing outbox relay cycle completed",
		"event", "listing_outbox_relay_completed",
		"module", "marketplace/listing-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
