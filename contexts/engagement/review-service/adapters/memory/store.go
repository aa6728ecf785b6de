package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"caravan/contexts/engagement/review-service/ports"
)

// Store is the in-memory review repository and author directory fake.
type Store struct {
	mu sync.RWMutex

	reviewsByTarget map[string][]ports.Review
	authorByUserID  map[string]ports.AuthorDisplay

	sequence  atomic.Uint64
	frozenNow *time.Time
}

func NewStore() *Store {
	return &Store{
		reviewsByTarget: make(map[string][]ports.Review),
		authorByUserID:  make(map[string]ports.AuthorDisplay),
	}
}

func (s *Store) CreateReview(_ context.Context, review ports.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsByTarget[review.TargetUserID] = append(s.reviewsByTarget[review.TargetUserID], review)
	return nil
}

func (s *Store) ListByTargetUserID(_ context.Context, targetUserID string) ([]ports.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Review(nil), s.reviewsByTarget[targetUserID]...), nil
}

func (s *Store) AuthorByUserID(_ context.Context, userID string) (ports.AuthorDisplay, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	display, ok := s.authorByUserID[userID]
	return display, ok, nil
}

// SetAuthor seeds the author directory.
func (s *Store) SetAuthor(userID string, display ports.AuthorDisplay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorByUserID[userID] = display
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("rev_%06d", s.sequence.Add(1)), nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
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
