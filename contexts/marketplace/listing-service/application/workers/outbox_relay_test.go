package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"caravan/contexts/marketplace/listing-service/adapters/memory"
	"caravan/contexts/marketplace/listing-service/ports"
	"caravan/internal/shared/events"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []ports.EventEnvelope
	failAfter int
}

func (p *fakePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if topic != events.TopicListingEvents {
		return errors.New("unexpected topic " + topic)
	}
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "listing-service",
		OccurredAtUTC: time.Now().UTC(),
		EntityType:    "listing",
		EntityID:      "lst_000001",
		PartitionKey:  "lst_000001",
		Payload:       []byte(`{"listing_id":"lst_000001"}`),
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarksRows(t *testing.T) {
	store := memory.NewStore()
	publisher := &fakePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	appendEnvelope(t, store, "evt_1", events.TypeListingApplied)
	appendEnvelope(t, store, "evt_2", events.TypeListingConfirmed)

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("published = %d, want 2", len(publisher.published))
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after relay = %d, want 0", len(pending))
	}
}

func TestOutboxRelayStopsOnPublishFailureAndRetries(t *testing.T) {
	store := memory.NewStore()
	publisher := &fakePublisher{failAfter: 1}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	appendEnvelope(t, store, "evt_1", events.TypeListingApplied)
	appendEnvelope(t, store, "evt_2", events.TypeListingConfirmed)

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected failure from broker")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "evt_2" {
		t.Fatalf("unexpected pending rows after partial cycle: %+v", pending)
	}

	// Next cycle drains the remainder.
	publisher.failAfter = 0
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("published = %d, want 2", len(publisher.published))
	}
}
