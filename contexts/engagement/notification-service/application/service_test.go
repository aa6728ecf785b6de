package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"caravan/contexts/engagement/notification-service/adapters/memory"
	domainerrors "caravan/contexts/engagement/notification-service/domain/errors"
	"caravan/contexts/engagement/notification-service/ports"
	"caravan/internal/shared/events"
)

type fakeNotifier struct {
	mu         sync.Mutex
	pushes     []string // token
	emails     []string // address
	templates  []string
	failTokens map[string]bool
	failAll    bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failTokens: make(map[string]bool)}
}

func (n *fakeNotifier) SendPush(_ context.Context, token string, templateID string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll || n.failTokens[token] {
		return errors.New("platform rejected token")
	}
	n.pushes = append(n.pushes, token)
	n.templates = append(n.templates, templateID)
	return nil
}

func (n *fakeNotifier) SendEmail(_ context.Context, address string, templateID string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return errors.New("smtp unavailable")
	}
	n.emails = append(n.emails, address)
	n.templates = append(n.templates, templateID)
	return nil
}

func newTestService(t *testing.T) (Service, *memory.Store, *fakeNotifier) {
	t.Helper()
	store := memory.NewStore()
	notifier := newFakeNotifier()
	service := Service{
		Tokens:   store,
		Audience: store,
		Notifier: notifier,
		Clock:    store,
	}
	return service, store, notifier
}

func registerToken(t *testing.T, service Service, userID string, token string) {
	t.Helper()
	if err := service.RegisterDeviceToken(context.Background(), userID, token); err != nil {
		t.Fatalf("register token failed: %v", err)
	}
}

func appliedEnvelope(t *testing.T, ownerID string, reservedByName string) ports.EventEnvelope {
	t.Helper()
	return listingEnvelope(t, events.TypeListingApplied, listingEvent{
		OrganisationID: "org_1",
		ListingID:      "lst_000001",
		CategoryID:     events.CategoryAnnouncement,
		Status:         "PendingConfirmation",
		OwnerID:        ownerID,
		ReservedByID:   "driver_1",
		ReservedByName: reservedByName,
		Title:          "Paris to Lyon",
		PriceAmount:    80,
		Currency:       "EUR",
		ArrivalAddress: "Lyon",
	})
}

func listingEnvelope(t *testing.T, eventType string, event listingEvent) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return ports.EventEnvelope{
		EventID:       "evt_1",
		EventType:     eventType,
		SourceService: "listing-service",
		OccurredAtUTC: time.Now().UTC(),
		EntityType:    "listing",
		EntityID:      event.ListingID,
		PartitionKey:  event.ListingID,
		Payload:       payload,
	}
}

func TestRegisterDeviceTokenIdempotent(t *testing.T) {
	service, store, _ := newTestService(t)

	registerToken(t, service, "user_1", "tok_a")
	registerToken(t, service, "user_1", "tok_a")
	registerToken(t, service, "user_1", "tok_b")

	tokens, err := store.ListTokensByUserID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("list tokens failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %d, want 2", len(tokens))
	}
}

func TestHandleAppliedEventTargetsOwner(t *testing.T) {
	service, _, notifier := newTestService(t)
	registerToken(t, service, "client_1", "tok_owner_1")
	registerToken(t, service, "client_1", "tok_owner_2")
	registerToken(t, service, "driver_1", "tok_driver")

	if err := service.HandleListingEvent(context.Background(), appliedEnvelope(t, "client_1", "Dana")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	sort.Strings(notifier.pushes)
	if len(notifier.pushes) != 2 || notifier.pushes[0] != "tok_owner_1" || notifier.pushes[1] != "tok_owner_2" {
		t.Fatalf("unexpected push targets %v", notifier.pushes)
	}
	for _, template := range notifier.templates {
		if template != TemplateListingApplication {
			t.Fatalf("unexpected template %q", template)
		}
	}
}

func TestHandleEventToleratesPerTokenFailure(t *testing.T) {
	service, _, notifier := newTestService(t)
	registerToken(t, service, "client_1", "tok_bad")
	registerToken(t, service, "client_1", "tok_good")
	notifier.failTokens["tok_bad"] = true

	if err := service.HandleListingEvent(context.Background(), appliedEnvelope(t, "client_1", "Dana")); err != nil {
		t.Fatalf("one failing token aborted the fan-out: %v", err)
	}
	if len(notifier.pushes) != 1 || notifier.pushes[0] != "tok_good" {
		t.Fatalf("remaining tokens were not attempted: %v", notifier.pushes)
	}
}

func TestHandleCreatedPlanningBroadcastsToClients(t *testing.T) {
	service, store, notifier := newTestService(t)
	store.SetAudience(ports.RoleClient, "client_1", "client_2", "driver_9")
	registerToken(t, service, "client_1", "tok_c1")
	registerToken(t, service, "client_2", "tok_c2")
	registerToken(t, service, "driver_9", "tok_owner")

	envelope := listingEnvelope(t, events.TypeListingCreated, listingEvent{
		OrganisationID: "org_1",
		ListingID:      "lst_000002",
		CategoryID:     events.CategoryPlanning,
		Status:         "Published",
		OwnerID:        "driver_9",
		Title:          "Weekly Lyon run",
	})
	if err := service.HandleListingEvent(context.Background(), envelope); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	sort.Strings(notifier.pushes)
	// The owning driver is in the audience list but excluded from delivery.
	if len(notifier.pushes) != 2 || notifier.pushes[0] != "tok_c1" || notifier.pushes[1] != "tok_c2" {
		t.Fatalf("unexpected broadcast targets %v", notifier.pushes)
	}
}

func TestHandleConfirmedEventTargetsReservedDriver(t *testing.T) {
	service, _, notifier := newTestService(t)
	registerToken(t, service, "driver_1", "tok_driver")
	registerToken(t, service, "client_1", "tok_owner")

	envelope := listingEnvelope(t, events.TypeListingConfirmed, listingEvent{
		OrganisationID: "org_1",
		ListingID:      "lst_000001",
		CategoryID:     events.CategoryAnnouncement,
		Status:         "Ongoing",
		OwnerID:        "client_1",
		ReservedByID:   "driver_1",
	})
	if err := service.HandleListingEvent(context.Background(), envelope); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(notifier.pushes) != 1 || notifier.pushes[0] != "tok_driver" {
		t.Fatalf("unexpected targets %v", notifier.pushes)
	}
	if notifier.templates[0] != TemplateReservationConfirmed {
		t.Fatalf("unexpected template %q", notifier.templates[0])
	}
}

func TestHandleEventEmailFallbackForDevicelessUser(t *testing.T) {
	service, store, notifier := newTestService(t)
	store.SetEmail("client_1", "owner@example.com")

	if err := service.HandleListingEvent(context.Background(), appliedEnvelope(t, "client_1", "Dana")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(notifier.pushes) != 0 {
		t.Fatalf("unexpected pushes %v", notifier.pushes)
	}
	if len(notifier.emails) != 1 || notifier.emails[0] != "owner@example.com" {
		t.Fatalf("expected email fallback, got %v", notifier.emails)
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	service, _, _ := newTestService(t)
	envelope := listingEnvelope(t, "listing.repainted", listingEvent{ListingID: "lst_1"})

	err := service.HandleListingEvent(context.Background(), envelope)
	if !errors.Is(err, domainerrors.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}
