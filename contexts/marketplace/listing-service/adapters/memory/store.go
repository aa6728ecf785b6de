package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "caravan/contexts/marketplace/listing-service/domain/errors"
	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
	"caravan/internal/shared/outbox"
)

// Store is the in-memory listing repository and outbox. The conditional
// update is atomic under the store mutex, which makes it a faithful stand-in
// for the version-guarded SQL UPDATE in concurrency tests. It also doubles
// as the Clock and IDGenerator fake.
type Store struct {
	mu sync.Mutex

	listingByKey map[string]entities.Listing
	outboxRows   []outbox.Message

	sequence  atomic.Uint64
	frozenNow *time.Time
}

func NewStore() *Store {
	return &Store{
		listingByKey: make(map[string]entities.Listing),
	}
}

func key(organisationID string, listingID string) string {
	return organisationID + "/" + listingID
}

func (s *Store) CreateListing(_ context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(listing.OrganisationID, listing.ListingID)
	if _, exists := s.listingByKey[k]; exists {
		return domainerrors.ErrInvalidRequest
	}
	s.listingByKey[k] = listing
	return nil
}

func (s *Store) GetListing(_ context.Context, organisationID string, listingID string) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listingByKey[key(organisationID, listingID)]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) UpdateListing(_ context.Context, listing entities.Listing, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(listing.OrganisationID, listing.ListingID)
	current, ok := s.listingByKey[k]
	if !ok {
		return domainerrors.ErrListingNotFound
	}
	if current.Version != expectedVersion {
		return domainerrors.ErrVersionMismatch
	}
	s.listingByKey[k] = listing
	return nil
}

func (s *Store) DeleteListing(_ context.Context, organisationID string, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(organisationID, listingID)
	if _, ok := s.listingByKey[k]; !ok {
		return domainerrors.ErrListingNotFound
	}
	delete(s.listingByKey, k)
	return nil
}

func (s *Store) ListByCategory(_ context.Context, organisationID string, categoryID string) ([]entities.Listing, error) {
	return s.list(func(l entities.Listing) bool {
		return l.OrganisationID == organisationID && l.CategoryID == categoryID
	}), nil
}

func (s *Store) ListByClient(_ context.Context, organisationID string, clientID string) ([]entities.Listing, error) {
	return s.list(func(l entities.Listing) bool {
		return l.OrganisationID == organisationID && l.ClientID == clientID
	}), nil
}

func (s *Store) ListByReservedDriver(_ context.Context, organisationID string, driverID string) ([]entities.Listing, error) {
	return s.list(func(l entities.Listing) bool {
		return l.OrganisationID == organisationID && l.ReservedByID == driverID
	}), nil
}

func (s *Store) list(match func(entities.Listing) bool) []entities.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Listing, 0)
	for _, listing := range s.listingByKey {
		if match(listing) {
			items = append(items, listing)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ListingID < items[j].ListingID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outboxRows = append(s.outboxRows, outbox.Message{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAtUTC,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outboxRows {
		if row.Status != outbox.StatusPending {
			continue
		}
		items = append(items, row)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	return s.markOutbox(outboxID, outbox.StatusPublished, &publishedAt)
}

func (s *Store) MarkOutboxFailed(_ context.Context, outboxID string) error {
	return s.markOutbox(outboxID, outbox.StatusFailed, nil)
}

func (s *Store) markOutbox(outboxID string, status string, publishedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outboxRows {
		if s.outboxRows[i].OutboxID == outboxID {
			s.outboxRows[i].Status = status
			s.outboxRows[i].PublishedAt = publishedAt
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("lst_%06d", s.sequence.Add(1)), nil
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozenNow != nil {
		return *s.frozenNow
	}
	return time.Now().UTC()
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frozen := now.UTC()
	s.frozenNow = &frozen
}
