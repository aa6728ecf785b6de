package events

import "time"

// Envelope is the canonical event shape carried between Caravan contexts.
// Listing transitions write these to the outbox; the worker relays them to
// the bus and the notification consumer reads them back.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	CorrelationID  string    `json:"correlation_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PartitionKey   string    `json:"partition_key"`
	PayloadVersion int       `json:"payload_version"`
	Payload        []byte    `json:"payload"`
}

// Listing lifecycle event types. The notification trigger keys template
// selection off these values.
const (
	TypeListingCreated              = "listing.created"
	TypeListingApplied              = "listing.applied"
	TypeListingReservationCancelled = "listing.reservation_cancelled"
	TypeListingConfirmed            = "listing.confirmed"
	TypeListingAccepted             = "listing.accepted"
)

// TopicListingEvents is the bus topic all listing lifecycle envelopes are
// published on.
const TopicListingEvents = "caravan.listing.events"

// Well-known listing category identifiers. These are contract-level: they
// ride inside envelope payloads and consumers key audience selection off
// them, so they live here rather than in the listing context.
const (
	CategoryAddress      = "7f9c24e8-1b3a-4f0e-9d2c-8a6b5e4d3c21"
	CategoryAnnouncement = "a1b2c3d4-0001-4a5b-8c9d-e0f1a2b3c4d5"
	CategoryPlanning     = "a1b2c3d4-0002-4a5b-8c9d-e0f1a2b3c4d5"
	CategoryVehicle      = "a1b2c3d4-0003-4a5b-8c9d-e0f1a2b3c4d5"
	CategoryExperience   = "a1b2c3d4-0004-4a5b-8c9d-e0f1a2b3c4d5"
)
