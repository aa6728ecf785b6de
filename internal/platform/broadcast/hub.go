package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is one live-update frame pushed to connected clients.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans live-update events out to all connected subscribers. It is the
// process-wide BroadcastPort implementation, injected at bootstrap rather
// than held as package state. Publish is best-effort: subscribers with full
// buffers miss the frame.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Message
	nextID      uint64
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[uint64]chan Message),
		logger:      logger,
	}
}

func (h *Hub) Publish(ctx context.Context, event string, payload []byte) error {
	msg := Message{Event: event, Payload: append(json.RawMessage(nil), payload...)}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subscribers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- msg:
		default:
			h.logger.Warn("dropping live update for slow subscriber",
				"event", "broadcast_publish_drop",
				"module", "internal/platform/broadcast",
				"layer", "platform",
				"subscriber_id", id,
				"update_event", event,
			)
		}
	}
	return nil
}

// Subscribe attaches a live-update listener. Cancel detaches it and closes
// the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Message, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
