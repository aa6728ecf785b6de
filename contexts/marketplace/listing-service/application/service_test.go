package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"caravan/contexts/marketplace/listing-service/adapters/memory"
	domainerrors "caravan/contexts/marketplace/listing-service/domain/errors"
	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
)

type recordingBroadcast struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (b *recordingBroadcast) Publish(_ context.Context, event string, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broadcast down")
	}
	b.events = append(b.events, event)
	return nil
}

func newTestService(t *testing.T) (Service, *memory.Store, *recordingBroadcast) {
	t.Helper()
	store := memory.NewStore()
	broadcast := &recordingBroadcast{}
	service := Service{
		Listings:  store,
		Outbox:    store,
		Broadcast: broadcast,
		Clock:     store,
		IDs:       store,
	}
	return service, store, broadcast
}

func publishedAnnouncement(t *testing.T, service Service) entities.Listing {
	t.Helper()
	listing, err := service.CreateListing(context.Background(), ports.CreateListingInput{
		OrganisationID: "org_1",
		CategoryID:     entities.CategoryAnnouncement,
		OwnerID:        "client_1",
		Title:          "Paris to Lyon",
		PriceAmount:    80,
		Currency:       "EUR",
		Publish:        true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return listing
}

func publishedPlanning(t *testing.T, service Service) entities.Listing {
	t.Helper()
	listing, err := service.CreateListing(context.Background(), ports.CreateListingInput{
		OrganisationID: "org_1",
		CategoryID:     entities.CategoryPlanning,
		OwnerID:        "driver_9",
		Title:          "Weekly Lyon run",
		Publish:        true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return listing
}

func TestApplyReservesPublishedListing(t *testing.T) {
	service, store, broadcast := newTestService(t)
	listing := publishedAnnouncement(t, service)

	got, err := service.Apply(context.Background(), listing.OrganisationID, listing.ListingID, "driver_1", "Dana Driver")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got.Status != entities.StatusPendingConfirmation {
		t.Fatalf("status = %s, want PendingConfirmation", got.Status)
	}
	if got.ReservedByID != "driver_1" || got.ReservedByName != "Dana Driver" {
		t.Fatalf("reservation not set: %+v", got)
	}
	if got.Version != listing.Version+1 {
		t.Fatalf("version = %d, want %d", got.Version, listing.Version+1)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	// One row from the published create, one from the apply.
	if len(pending) != 2 {
		t.Fatalf("pending outbox rows = %d, want 2", len(pending))
	}

	broadcast.mu.Lock()
	defer broadcast.mu.Unlock()
	if len(broadcast.events) != 2 || broadcast.events[1] != BroadcastEventUpdatedListing {
		t.Fatalf("unexpected broadcast events %v", broadcast.events)
	}
}

func TestApplySecondDriverConflicts(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)

	if _, err := service.Apply(context.Background(), listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	_, err := service.Apply(context.Background(), listing.OrganisationID, listing.ListingID, "driver_2", "")
	if !errors.Is(err, domainerrors.ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved for second apply, got %v", err)
	}

	got, err := service.GetListing(context.Background(), listing.OrganisationID, listing.ListingID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ReservedByID != "driver_1" {
		t.Fatalf("reservation changed on failed apply: %+v", got)
	}
}

func TestCancelReservationReleasesFromBothStatuses(t *testing.T) {
	for _, confirmFirst := range []bool{false, true} {
		service, _, _ := newTestService(t)
		listing := publishedAnnouncement(t, service)
		ctx := context.Background()

		if _, err := service.Apply(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
			t.Fatalf("apply failed: %v", err)
		}
		if confirmFirst {
			if _, err := service.Confirm(ctx, listing.OrganisationID, listing.ListingID, "client_1", "driver_1"); err != nil {
				t.Fatalf("confirm failed: %v", err)
			}
		}

		got, err := service.CancelReservation(ctx, listing.OrganisationID, listing.ListingID, "driver_1")
		if err != nil {
			t.Fatalf("cancel (confirmFirst=%v) failed: %v", confirmFirst, err)
		}
		if got.Status != entities.StatusPublished || got.ReservedByID != "" || got.ReservedByName != "" {
			t.Fatalf("cancel left %+v", got)
		}
	}
}

func TestCancelReservationByOtherDriverForbidden(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	if _, err := service.Apply(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	_, err := service.CancelReservation(ctx, listing.OrganisationID, listing.ListingID, "driver_2")
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConfirmLifecycleScenario(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	if _, err := service.Apply(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	got, err := service.Confirm(ctx, listing.OrganisationID, listing.ListingID, "client_1", "driver_1")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got.Status != entities.StatusOngoing {
		t.Fatalf("status = %s, want Ongoing", got.Status)
	}

	_, err = service.Confirm(ctx, listing.OrganisationID, listing.ListingID, "client_1", "driver_1")
	if !errors.Is(err, domainerrors.ErrWrongStatus) {
		t.Fatalf("expected ErrWrongStatus on re-confirm, got %v", err)
	}
}

func TestConfirmGuards(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	if _, err := service.Apply(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, err := service.Confirm(ctx, listing.OrganisationID, listing.ListingID, "someone_else", "driver_1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := service.Confirm(ctx, listing.OrganisationID, listing.ListingID, "client_1", "driver_2"); !errors.Is(err, domainerrors.ErrWrongStatus) {
		t.Fatalf("expected ErrWrongStatus for wrong driver, got %v", err)
	}

	got, err := service.GetListing(ctx, listing.OrganisationID, listing.ListingID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != entities.StatusPendingConfirmation || got.ReservedByID != "driver_1" {
		t.Fatalf("failed guards mutated state: %+v", got)
	}
}

func TestAcceptPlanning(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedPlanning(t, service)
	ctx := context.Background()

	got, err := service.Accept(ctx, listing.OrganisationID, listing.ListingID, "client_3", "Carla Client")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got.Status != entities.StatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", got.Status)
	}
	if got.ReservedByID != "client_3" || got.ReservedByName != "Carla Client" {
		t.Fatalf("reservation not set to accepting client: %+v", got)
	}

	if _, err := service.Accept(ctx, listing.OrganisationID, listing.ListingID, "client_4", ""); !errors.Is(err, domainerrors.ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved on second accept, got %v", err)
	}
}

func TestAcceptRejectsAnnouncementCategory(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)

	_, err := service.Accept(context.Background(), listing.OrganisationID, listing.ListingID, "client_3", "")
	if !errors.Is(err, domainerrors.ErrWrongStatus) {
		t.Fatalf("expected ErrWrongStatus, got %v", err)
	}
}

func TestConcurrentApplyExactlyOneWins(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	const drivers = 8
	var wg sync.WaitGroup
	errs := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Apply(ctx, listing.OrganisationID, listing.ListingID, driverID(i), "")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, domainerrors.ErrWrongStatus) &&
			!errors.Is(err, domainerrors.ErrAlreadyReserved) &&
			!errors.Is(err, domainerrors.ErrVersionMismatch) {
			t.Fatalf("unexpected apply error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	got, err := service.GetListing(ctx, listing.OrganisationID, listing.ListingID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != entities.StatusPendingConfirmation || got.ReservedByID == "" {
		t.Fatalf("listing not reserved exactly once: %+v", got)
	}
}

func TestBroadcastFailureDoesNotFailTransition(t *testing.T) {
	service, _, broadcast := newTestService(t)
	broadcast.fail = true
	listing := publishedAnnouncement(t, service)

	got, err := service.Apply(context.Background(), listing.OrganisationID, listing.ListingID, "driver_1", "")
	if err != nil {
		t.Fatalf("apply failed despite fire-and-forget broadcast: %v", err)
	}
	if got.Status != entities.StatusPendingConfirmation {
		t.Fatalf("status = %s, want PendingConfirmation", got.Status)
	}
}

func TestUpdateListingPartialMergeOwnerOnly(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	title := "Paris to Marseille"
	if _, err := service.UpdateListing(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ports.UpdateListingInput{Title: &title}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner edit, got %v", err)
	}

	got, err := service.UpdateListing(ctx, listing.OrganisationID, listing.ListingID, "client_1", ports.UpdateListingInput{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.Title != title {
		t.Fatalf("title = %q, want %q", got.Title, title)
	}
	if got.PriceAmount != listing.PriceAmount || got.Currency != listing.Currency {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.Version != listing.Version+1 {
		t.Fatalf("version = %d, want %d", got.Version, listing.Version+1)
	}
}

func TestDeleteListingUnconditionalMidNegotiation(t *testing.T) {
	service, _, _ := newTestService(t)
	listing := publishedAnnouncement(t, service)
	ctx := context.Background()

	if _, err := service.Apply(ctx, listing.OrganisationID, listing.ListingID, "driver_1", ""); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := service.DeleteListing(ctx, listing.OrganisationID, listing.ListingID, "driver_1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}
	if err := service.DeleteListing(ctx, listing.OrganisationID, listing.ListingID, "client_1"); err != nil {
		t.Fatalf("owner delete failed mid-negotiation: %v", err)
	}
	if _, err := service.GetListing(ctx, listing.OrganisationID, listing.ListingID); !errors.Is(err, domainerrors.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound after delete, got %v", err)
	}
}

func TestCreateListingUnknownCategory(t *testing.T) {
	service, _, _ := newTestService(t)
	_, err := service.CreateListing(context.Background(), ports.CreateListingInput{
		OrganisationID: "org_1",
		CategoryID:     "not-a-category",
		OwnerID:        "client_1",
		Title:          "x",
	})
	if !errors.Is(err, domainerrors.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func driverID(i int) string {
	return "driver_" + string(rune('a'+i))
}
