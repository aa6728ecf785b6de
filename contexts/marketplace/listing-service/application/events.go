package application

import (
	"encoding/json"
	"time"

	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
)

// listingEventPayload is the projection carried inside listing envelopes.
// The notification trigger builds template metadata from these fields.
type listingEventPayload struct {
	OrganisationID   string  `json:"organisation_id"`
	ListingID        string  `json:"listing_id"`
	CategoryID       string  `json:"category_id"`
	Status           string  `json:"status"`
	OwnerID          string  `json:"owner_id"`
	ReservedByID     string  `json:"reserved_by_id,omitempty"`
	ReservedByName   string  `json:"reserved_by_name,omitempty"`
	Title            string  `json:"title,omitempty"`
	PriceAmount      float64 `json:"price_amount,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	DepartureAddress string  `json:"departure_address,omitempty"`
	ArrivalAddress   string  `json:"arrival_address,omitempty"`
}

// Envelopes are partitioned by listing so consumers observe one listing's
// transitions in order.
func newListingEnvelope(
	eventID string,
	eventType string,
	listing entities.Listing,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(listingEventPayload{
		OrganisationID:   listing.OrganisationID,
		ListingID:        listing.ListingID,
		CategoryID:       listing.CategoryID,
		Status:           string(listing.Status),
		OwnerID:          listing.ClientID,
		ReservedByID:     listing.ReservedByID,
		ReservedByName:   listing.ReservedByName,
		Title:            listing.Title,
		PriceAmount:      listing.PriceAmount,
		Currency:         listing.Currency,
		DepartureAddress: listing.DepartureAddress,
		ArrivalAddress:   listing.ArrivalAddress,
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "listing-service",
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  eventID,
		EntityType:     "listing",
		EntityID:       listing.ListingID,
		PartitionKey:   listing.ListingID,
		PayloadVersion: 1,
		Payload:        payload,
	}, nil
}
