package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "caravan/contexts/marketplace/listing-service/domain/errors"
	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
	"caravan/internal/shared/events"
)

// BroadcastEventUpdatedListing is the live-update frame name pushed on every
// committed transition.
const BroadcastEventUpdatedListing = "updated_listing"

type Service struct {
	Listings    ports.Repository
	Outbox      ports.OutboxWriter
	Broadcast   ports.BroadcastPort
	Transitions ports.TransitionCounter
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

// CreateListing persists a new listing authored by its owning role. Clients
// author announcements, addresses and experiences; drivers author plannings
// and vehicles. A published creation emits the listing.created side channel.
func (s Service) CreateListing(ctx context.Context, input ports.CreateListingInput) (entities.Listing, error) {
	if strings.TrimSpace(input.OrganisationID) == "" ||
		strings.TrimSpace(input.OwnerID) == "" ||
		strings.TrimSpace(input.Title) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidRequest
	}
	if _, ok := entities.CategoryOwner(input.CategoryID); !ok {
		return entities.Listing{}, domainerrors.ErrUnknownCategory
	}

	listingID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	now := s.now()
	status := entities.StatusDraft
	if input.Publish {
		status = entities.StatusPublished
	}
	listing := entities.Listing{
		OrganisationID:   strings.TrimSpace(input.OrganisationID),
		ListingID:        listingID,
		CategoryID:       input.CategoryID,
		Status:           status,
		ClientID:         strings.TrimSpace(input.OwnerID),
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		PriceAmount:      input.PriceAmount,
		Currency:         input.Currency,
		DepartureAddress: input.DepartureAddress,
		ArrivalAddress:   input.ArrivalAddress,
		DepartureAt:      input.DepartureAt,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Listings.CreateListing(ctx, listing); err != nil {
		return entities.Listing{}, err
	}

	if listing.Status == entities.StatusPublished {
		s.emitSideChannels(ctx, listing, events.TypeListingCreated, "create")
	}
	return listing, nil
}

// UpdateListing applies a partial owner edit. Only non-nil patch fields
// overwrite; the write is conditional on the loaded version.
func (s Service) UpdateListing(
	ctx context.Context,
	organisationID string,
	listingID string,
	callerID string,
	patch ports.UpdateListingInput,
) (entities.Listing, error) {
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if !listing.OwnedBy(callerID) {
		return entities.Listing{}, domainerrors.ErrForbidden
	}

	expected := listing.Version
	if patch.Title != nil {
		listing.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.PriceAmount != nil {
		listing.PriceAmount = *patch.PriceAmount
	}
	if patch.Currency != nil {
		listing.Currency = *patch.Currency
	}
	if patch.DepartureAddress != nil {
		listing.DepartureAddress = *patch.DepartureAddress
	}
	if patch.ArrivalAddress != nil {
		listing.ArrivalAddress = *patch.ArrivalAddress
	}
	if patch.DepartureAt != nil {
		departure := *patch.DepartureAt
		listing.DepartureAt = &departure
	}
	listing.Version++
	listing.UpdatedAt = s.now()

	if err := s.Listings.UpdateListing(ctx, listing, expected); err != nil {
		return entities.Listing{}, err
	}
	return listing, nil
}

// DeleteListing removes the row unconditionally; a listing can be deleted
// mid-negotiation. Owner-only.
func (s Service) DeleteListing(ctx context.Context, organisationID string, listingID string, callerID string) error {
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return err
	}
	if !listing.OwnedBy(callerID) {
		return domainerrors.ErrForbidden
	}
	return s.Listings.DeleteListing(ctx, listing.OrganisationID, listing.ListingID)
}

func (s Service) GetListing(ctx context.Context, organisationID string, listingID string) (entities.Listing, error) {
	return s.load(ctx, organisationID, listingID)
}

func (s Service) ListByCategory(ctx context.Context, organisationID string, categoryID string) ([]entities.Listing, error) {
	if strings.TrimSpace(organisationID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, ok := entities.CategoryOwner(categoryID); !ok {
		return nil, domainerrors.ErrUnknownCategory
	}
	return s.Listings.ListByCategory(ctx, organisationID, categoryID)
}

func (s Service) ListByClient(ctx context.Context, organisationID string, clientID string) ([]entities.Listing, error) {
	if strings.TrimSpace(organisationID) == "" || strings.TrimSpace(clientID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Listings.ListByClient(ctx, organisationID, clientID)
}

func (s Service) ListByReservedDriver(ctx context.Context, organisationID string, driverID string) ([]entities.Listing, error) {
	if strings.TrimSpace(organisationID) == "" || strings.TrimSpace(driverID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Listings.ListByReservedDriver(ctx, organisationID, driverID)
}

// Apply reserves a Published, unreserved announcement for the applying
// driver and moves it to PendingConfirmation.
func (s Service) Apply(
	ctx context.Context,
	organisationID string,
	listingID string,
	driverID string,
	driverName string,
) (entities.Listing, error) {
	if strings.TrimSpace(driverID) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidRequest
	}
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if owner, _ := entities.CategoryOwner(listing.CategoryID); owner != entities.OwnerRoleClient {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}
	if listing.Reserved() {
		return entities.Listing{}, domainerrors.ErrAlreadyReserved
	}
	if listing.Status != entities.StatusPublished {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}

	expected := listing.Version
	listing.Status = entities.StatusPendingConfirmation
	listing.ReservedByID = driverID
	listing.ReservedByName = driverName
	return s.commit(ctx, listing, expected, events.TypeListingApplied, "apply")
}

// CancelReservation releases the listing back to Published. Only the
// reserving driver may cancel, from PendingConfirmation or Ongoing.
func (s Service) CancelReservation(
	ctx context.Context,
	organisationID string,
	listingID string,
	driverID string,
) (entities.Listing, error) {
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if listing.ReservedByID != driverID || driverID == "" {
		return entities.Listing{}, domainerrors.ErrForbidden
	}
	if listing.Status != entities.StatusPendingConfirmation && listing.Status != entities.StatusOngoing {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}

	expected := listing.Version
	listing.Status = entities.StatusPublished
	listing.ReservedByID = ""
	listing.ReservedByName = ""
	return s.commit(ctx, listing, expected, events.TypeListingReservationCancelled, "cancel_reservation")
}

// Confirm is the owning client accepting the driver who applied. The guard
// requires PendingConfirmation and the exact driver from the request; any
// other combination leaves state unchanged.
func (s Service) Confirm(
	ctx context.Context,
	organisationID string,
	listingID string,
	callerID string,
	driverID string,
) (entities.Listing, error) {
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if !listing.OwnedBy(callerID) {
		return entities.Listing{}, domainerrors.ErrForbidden
	}
	if listing.Status != entities.StatusPendingConfirmation {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}
	if driverID == "" || listing.ReservedByID != driverID {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}

	expected := listing.Version
	listing.Status = entities.StatusOngoing
	return s.commit(ctx, listing, expected, events.TypeListingConfirmed, "confirm")
}

// Accept is the planning mirror of Apply: a client claims a Published,
// unreserved driver planning, which lands directly in Confirmed.
func (s Service) Accept(
	ctx context.Context,
	organisationID string,
	listingID string,
	clientID string,
	clientName string,
) (entities.Listing, error) {
	if strings.TrimSpace(clientID) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidRequest
	}
	listing, err := s.load(ctx, organisationID, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if owner, _ := entities.CategoryOwner(listing.CategoryID); owner != entities.OwnerRoleDriver {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}
	if listing.Reserved() {
		return entities.Listing{}, domainerrors.ErrAlreadyReserved
	}
	if listing.Status != entities.StatusPublished {
		return entities.Listing{}, domainerrors.ErrWrongStatus
	}

	expected := listing.Version
	listing.Status = entities.StatusConfirmed
	listing.ReservedByID = clientID
	listing.ReservedByName = clientName
	return s.commit(ctx, listing, expected, events.TypeListingAccepted, "accept")
}

func (s Service) load(ctx context.Context, organisationID string, listingID string) (entities.Listing, error) {
	if strings.TrimSpace(organisationID) == "" || strings.TrimSpace(listingID) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidRequest
	}
	return s.Listings.GetListing(ctx, organisationID, listingID)
}

// commit persists the transition and, only after the write succeeded, emits
// the side channels. Persistence happens-before both the outbox append and
// the broadcast; neither side channel failure reaches the caller.
func (s Service) commit(
	ctx context.Context,
	listing entities.Listing,
	expectedVersion int64,
	eventType string,
	action string,
) (entities.Listing, error) {
	listing.Version = expectedVersion + 1
	listing.UpdatedAt = s.now()
	if err := s.Listings.UpdateListing(ctx, listing, expectedVersion); err != nil {
		return entities.Listing{}, err
	}
	s.emitSideChannels(ctx, listing, eventType, action)
	return listing, nil
}

func (s Service) emitSideChannels(ctx context.Context, listing entities.Listing, eventType string, action string) {
	logger := ResolveLogger(s.Logger)

	if s.Transitions != nil {
		s.Transitions.IncListingTransition(action)
	}

	eventID, err := s.IDs.NewID(ctx)
	if err == nil {
		var envelope ports.EventEnvelope
		envelope, err = newListingEnvelope(eventID, eventType, listing, s.now())
		if err == nil && s.Outbox != nil {
			err = s.Outbox.AppendOutbox(ctx, envelope)
		}
	}
	if err != nil {
		logger.Error("listing outbox append failed",
			"event", "listing_outbox_append_failed",
			"module", "marketplace/listing-service",
			"layer", "application",
			"listing_id", listing.ListingID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}

	if s.Broadcast != nil {
		frame, err := json.Marshal(map[string]any{
			"organisation_id": listing.OrganisationID,
			"listing_id":      listing.ListingID,
			"category_id":     listing.CategoryID,
			"status":          string(listing.Status),
		})
		if err == nil {
			err = s.Broadcast.Publish(ctx, BroadcastEventUpdatedListing, frame)
		}
		if err != nil {
			logger.Warn("listing broadcast publish failed",
				"event", "listing_broadcast_failed",
				"module", "marketplace/listing-service",
				"layer", "application",
				"listing_id", listing.ListingID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("listing transition committed",
		"event", "listing_transition_committed",
		"module", "marketplace/listing-service",
		"layer", "application",
		"organisation_id", listing.OrganisationID,
		"listing_id", listing.ListingID,
		"status", string(listing.Status),
		"action", action,
	)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
