package ports

import (
	"context"
	"time"

	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/internal/shared/events"
	"caravan/internal/shared/outbox"
)

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

// Repository persists listings keyed by (organisationID, listingID).
// UpdateListing is a conditional write on expectedVersion; a concurrent
// writer having bumped the row surfaces as ErrVersionMismatch, never as a
// silent overwrite.
type Repository interface {
	CreateListing(ctx context.Context, listing entities.Listing) error
	GetListing(ctx context.Context, organisationID string, listingID string) (entities.Listing, error)
	UpdateListing(ctx context.Context, listing entities.Listing, expectedVersion int64) error
	DeleteListing(ctx context.Context, organisationID string, listingID string) error
	ListByCategory(ctx context.Context, organisationID string, categoryID string) ([]entities.Listing, error)
	ListByClient(ctx context.Context, organisationID string, clientID string) ([]entities.Listing, error)
	ListByReservedDriver(ctx context.Context, organisationID string, driverID string) ([]entities.Listing, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
	MarkOutboxFailed(ctx context.Context, outboxID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// BroadcastPort is the live-update side channel. Publish is best-effort;
// callers never treat its failure as a transition failure.
type BroadcastPort interface {
	Publish(ctx context.Context, event string, payload []byte) error
}

// TransitionCounter records successful state machine transitions for
// observability. Implementations must be safe for concurrent use.
type TransitionCounter interface {
	IncListingTransition(action string)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type CreateListingInput struct {
	OrganisationID   string
	CategoryID       string
	OwnerID          string
	Title            string
	Description      string
	PriceAmount      float64
	Currency         string
	DepartureAddress string
	ArrivalAddress   string
	DepartureAt      *time.Time
	Publish          bool
}

// UpdateListingInput carries a partial edit; only non-nil fields overwrite.
type UpdateListingInput struct {
	Title            *string
	Description      *string
	PriceAmount      *float64
	Currency         *string
	DepartureAddress *string
	ArrivalAddress   *string
	DepartureAt      *time.Time
}
