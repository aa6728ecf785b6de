package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "caravan/contexts/engagement/notification-service/domain/errors"
	"caravan/contexts/engagement/notification-service/ports"
	"caravan/internal/shared/events"
)

// Push template identifiers understood by the external notifier.
const (
	TemplateNewListing           = "new_listing_available"
	TemplateListingApplication   = "listing_application"
	TemplateReservationCancelled = "reservation_cancelled"
	TemplateReservationConfirmed = "reservation_confirmed"
	TemplatePlanningAccepted     = "planning_accepted"
)

type Service struct {
	Tokens     ports.DeviceTokenRepository
	Audience   ports.AudienceDirectory
	Notifier   ports.Notifier
	Deliveries ports.DeliveryCounter
	Clock      ports.Clock
	Logger     *slog.Logger
}

// RegisterDeviceToken appends a (user, token) pair. Registering the same
// pair again is a no-op.
func (s Service) RegisterDeviceToken(ctx context.Context, userID string, token string) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Tokens.RegisterToken(ctx, ports.DeviceToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: s.now(),
	})
}

// listingEvent is the payload projection shared with the listing service.
type listingEvent struct {
	OrganisationID   string  `json:"organisation_id"`
	ListingID        string  `json:"listing_id"`
	CategoryID       string  `json:"category_id"`
	Status           string  `json:"status"`
	OwnerID          string  `json:"owner_id"`
	ReservedByID     string  `json:"reserved_by_id"`
	ReservedByName   string  `json:"reserved_by_name"`
	Title            string  `json:"title"`
	PriceAmount      float64 `json:"price_amount"`
	Currency         string  `json:"currency"`
	DepartureAddress string  `json:"departure_address"`
	ArrivalAddress   string  `json:"arrival_address"`
}

// HandleListingEvent maps one listing envelope to a template plus audience
// and fans the push out. Per-token failures are tolerated; the aggregate
// outcome is logged and counted but never returned to the producer side.
func (s Service) HandleListingEvent(ctx context.Context, envelope ports.EventEnvelope) error {
	var event listingEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrInvalidRequest, err.Error())
	}

	template, audience, err := s.resolveAudience(ctx, envelope.EventType, event)
	if err != nil {
		return err
	}
	metadata := buildMetadata(event)

	sent, failed := 0, 0
	for _, userID := range audience {
		userSent, userFailed := s.notifyUser(ctx, userID, template, metadata)
		sent += userSent
		failed += userFailed
	}

	ResolveLogger(s.Logger).Info("listing event dispatched",
		"event", "notification_fanout_completed",
		"module", "engagement/notification-service",
		"layer", "application",
		"event_id", envelope.EventID,
		"event_type", envelope.EventType,
		"template", template,
		"audience_size", len(audience),
		"sent", sent,
		"failed", failed,
	)
	return nil
}

// resolveAudience picks the template and recipients for an event type.
// Created listings broadcast to the counterpart role; every other event
// targets a single user.
func (s Service) resolveAudience(
	ctx context.Context,
	eventType string,
	event listingEvent,
) (string, []string, error) {
	switch eventType {
	case events.TypeListingCreated:
		role := ports.RoleDriver
		if isDriverOwnedCategory(event.CategoryID) {
			role = ports.RoleClient
		}
		audience, err := s.Audience.ListUserIDsByRole(ctx, role)
		if err != nil {
			return "", nil, err
		}
		// The author does not get notified about their own listing.
		filtered := audience[:0]
		for _, userID := range audience {
			if userID != event.OwnerID {
				filtered = append(filtered, userID)
			}
		}
		return TemplateNewListing, filtered, nil
	case events.TypeListingApplied:
		return TemplateListingApplication, []string{event.OwnerID}, nil
	case events.TypeListingReservationCancelled:
		return TemplateReservationCancelled, []string{event.OwnerID}, nil
	case events.TypeListingConfirmed:
		return TemplateReservationConfirmed, []string{event.ReservedByID}, nil
	case events.TypeListingAccepted:
		return TemplatePlanningAccepted, []string{event.OwnerID}, nil
	default:
		return "", nil, domainerrors.ErrUnknownEvent
	}
}

// notifyUser pushes to every device the user registered, falling back to
// email when no device is known. Failures are per-target and never abort
// the remaining targets.
func (s Service) notifyUser(
	ctx context.Context,
	userID string,
	template string,
	metadata map[string]string,
) (sent int, failed int) {
	logger := ResolveLogger(s.Logger)
	if strings.TrimSpace(userID) == "" {
		return 0, 0
	}

	tokens, err := s.Tokens.ListTokensByUserID(ctx, userID)
	if err != nil {
		logger.Error("device token lookup failed",
			"event", "notification_token_lookup_failed",
			"module", "engagement/notification-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		s.countFailed(template)
		return 0, 1
	}

	if len(tokens) == 0 {
		address, found, err := s.Audience.EmailByUserID(ctx, userID)
		if err != nil || !found {
			return 0, 0
		}
		if err := s.Notifier.SendEmail(ctx, address, template, metadata); err != nil {
			logger.Warn("email fallback failed",
				"event", "notification_email_failed",
				"module", "engagement/notification-service",
				"layer", "application",
				"user_id", userID,
				"template", template,
				"error", err.Error(),
			)
			s.countFailed(template)
			return 0, 1
		}
		s.countSent(template)
		return 1, 0
	}

	for _, token := range tokens {
		if err := s.Notifier.SendPush(ctx, token.Token, template, metadata); err != nil {
			logger.Warn("push delivery failed",
				"event", "notification_push_failed",
				"module", "engagement/notification-service",
				"layer", "application",
				"user_id", userID,
				"template", template,
				"error", err.Error(),
			)
			s.countFailed(template)
			failed++
			continue
		}
		s.countSent(template)
		sent++
	}
	return sent, failed
}

func buildMetadata(event listingEvent) map[string]string {
	metadata := map[string]string{
		"listing_id":  event.ListingID,
		"title":       event.Title,
		"status":      event.Status,
		"destination": event.ArrivalAddress,
		"cost":        fmt.Sprintf("%.2f %s", event.PriceAmount, event.Currency),
	}
	if event.ReservedByName != "" {
		metadata["driver_name"] = event.ReservedByName
	}
	return metadata
}

func isDriverOwnedCategory(categoryID string) bool {
	// Mirrors the listing service's ownership convention: plannings and
	// vehicles are driver authored.
	switch categoryID {
	case events.CategoryPlanning, events.CategoryVehicle:
		return true
	default:
		return false
	}
}

func (s Service) countSent(template string) {
	if s.Deliveries != nil {
		s.Deliveries.IncNotificationSent(template)
	}
}

func (s Service) countFailed(template string) {
	if s.Deliveries != nil {
		s.Deliveries.IncNotificationFailed(template)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
