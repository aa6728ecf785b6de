package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"caravan/internal/shared/events"

	"github.com/segmentio/kafka-go"
)

// Bus is the event bus adapter used by the worker relay and consumers.
// Delivery inside the process is channel fan-out; when brokers are
// configured every envelope is additionally mirrored to Kafka so external
// consumers see the same stream.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	writer      *kafka.Writer
	logger      *slog.Logger
}

func NewBus(brokers []string, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	bus := &Bus{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
	if len(brokers) > 0 {
		bus.writer = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.Hash{},
		}
	}
	return bus
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
			)
		}
	}

	if b.writer != nil {
		value, err := json.Marshal(event)
		if err != nil {
			return err
		}
		err = b.writer.WriteMessages(ctx, kafka.Message{
			Topic: topic,
			Key:   []byte(event.PartitionKey),
			Value: value,
		})
		if err != nil {
			b.logger.Error("kafka mirror publish failed",
				"event", "bus_kafka_mirror_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
	}

	b.logger.Info("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

// Subscribe registers an in-process consumer channel for a topic.
// The returned channel is buffered; slow consumers lose events rather than
// blocking publishers.
func (b *Bus) Subscribe(topic string, buffer int) <-chan events.Envelope {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan events.Envelope, buffer)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	return ch
}

func (b *Bus) Close() error {
	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub)
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()

	if b.writer != nil {
		return b.writer.Close()
	}
	return nil
}
