package memory

import (
	"context"
	"sync"
	"time"

	"caravan/contexts/identity-access/onboarding-service/ports"
)

// Store is the in-memory OTP ledger. It doubles as the Clock fake in tests;
// SetNow freezes time.
type Store struct {
	mu sync.RWMutex

	otpByEmail map[string]ports.OtpRecord
	frozenNow  *time.Time
}

func NewStore() *Store {
	return &Store{
		otpByEmail: make(map[string]ports.OtpRecord),
	}
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

func (s *Store) Put(_ context.Context, record ports.OtpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otpByEmail[record.Email] = record
	return nil
}

func (s *Store) Get(_ context.Context, email string) (ports.OtpRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.otpByEmail[email]
	return record, ok, nil
}

func (s *Store) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.otpByEmail, email)
	return nil
}
