package memory

import (
	"context"
	"sync"
	"time"

	"caravan/contexts/engagement/notification-service/ports"
)

// Store is the in-memory device token repository and audience directory.
// It doubles as the Clock fake.
type Store struct {
	mu sync.RWMutex

	tokensByUser map[string][]ports.DeviceToken
	usersByRole  map[ports.Role][]string
	emailByUser  map[string]string
	frozenNow    *time.Time
}

func NewStore() *Store {
	return &Store{
		tokensByUser: make(map[string][]ports.DeviceToken),
		usersByRole:  make(map[ports.Role][]string),
		emailByUser:  make(map[string]string),
	}
}

func (s *Store) RegisterToken(_ context.Context, token ports.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tokensByUser[token.UserID] {
		if existing.Token == token.Token {
			return nil
		}
	}
	s.tokensByUser[token.UserID] = append(s.tokensByUser[token.UserID], token)
	return nil
}

func (s *Store) ListTokensByUserID(_ context.Context, userID string) ([]ports.DeviceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.DeviceToken(nil), s.tokensByUser[userID]...), nil
}

func (s *Store) ListUserIDsByRole(_ context.Context, role ports.Role) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.usersByRole[role]...), nil
}

func (s *Store) EmailByUserID(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.emailByUser[userID]
	return address, ok, nil
}

// SetAudience seeds role membership for tests and in-memory wiring.
func (s *Store) SetAudience(role ports.Role, userIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByRole[role] = append([]string(nil), userIDs...)
}

// SetEmail seeds the email fallback directory.
func (s *Store) SetEmail(userID string, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailByUser[userID] = address
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
