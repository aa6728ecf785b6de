package outbox

import "time"

// Message is an outbox row persisted in the same logical step as the state
// change that produced it. The worker relay reads pending rows and publishes
// them to the message bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string
	RetryCount   int
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)
