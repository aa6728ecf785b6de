package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "caravan/contexts/identity-access/session-service/domain/errors"
	"caravan/contexts/identity-access/session-service/ports"
)

type Store struct {
	mu sync.RWMutex

	driverByUserID map[string]ports.DriverProfile
	clientByUserID map[string]ports.ClientProfile
	sequence       uint64
}

func NewStore() *Store {
	return &Store{
		driverByUserID: make(map[string]ports.DriverProfile),
		clientByUserID: make(map[string]ports.ClientProfile),
	}
}

// Now lets the store double as a Clock fake in tests.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) GetDriverProfileByUserID(_ context.Context, userID string) (ports.DriverProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.driverByUserID[userID]
	return profile, ok, nil
}

func (s *Store) GetClientProfileByUserID(_ context.Context, userID string) (ports.ClientProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.clientByUserID[userID]
	return profile, ok, nil
}

func (s *Store) ListDriverProfilesByOrganisation(_ context.Context, organisationID string) ([]ports.DriverProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.DriverProfile, 0)
	for _, profile := range s.driverByUserID {
		if profile.OrganisationID == organisationID {
			items = append(items, profile)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UserID < items[j].UserID })
	return items, nil
}

func (s *Store) CreateDriverProfile(_ context.Context, input ports.CreateDriverProfileInput, now time.Time) (ports.DriverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.driverByUserID[input.UserID]; exists {
		return ports.DriverProfile{}, domainerrors.ErrDuplicateProfile
	}

	profile := ports.DriverProfile{
		ProfileID:       s.nextID("drv"),
		UserID:          input.UserID,
		OrganisationID:  input.OrganisationID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		CompanyName:     input.CompanyName,
		ProfileImageURL: input.ProfileImageURL,
		VehiclePlate:    input.VehiclePlate,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	s.driverByUserID[input.UserID] = profile
	return profile, nil
}

func (s *Store) CreateClientProfile(_ context.Context, input ports.CreateClientProfileInput, now time.Time) (ports.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clientByUserID[input.UserID]; exists {
		return ports.ClientProfile{}, domainerrors.ErrDuplicateProfile
	}

	profile := ports.ClientProfile{
		ProfileID:       s.nextID("cli"),
		UserID:          input.UserID,
		OrganisationID:  input.OrganisationID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		CompanyName:     input.CompanyName,
		ProfileImageURL: input.ProfileImageURL,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	s.clientByUserID[input.UserID] = profile
	return profile, nil
}

func (s *Store) UpdateDriverProfile(_ context.Context, userID string, patch ports.DriverProfilePatch, now time.Time) (ports.DriverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.driverByUserID[userID]
	if !ok {
		return ports.DriverProfile{}, domainerrors.ErrProfileNotFound
	}

	applyString(&profile.FirstName, patch.FirstName)
	applyString(&profile.LastName, patch.LastName)
	applyString(&profile.PhoneNumber, patch.PhoneNumber)
	applyString(&profile.CompanyName, patch.CompanyName)
	applyString(&profile.ProfileImageURL, patch.ProfileImageURL)
	applyString(&profile.VehiclePlate, patch.VehiclePlate)
	profile.UpdatedAt = now.UTC()

	s.driverByUserID[userID] = profile
	return profile, nil
}

func (s *Store) UpdateClientProfile(_ context.Context, userID string, patch ports.ClientProfilePatch, now time.Time) (ports.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.clientByUserID[userID]
	if !ok {
		return ports.ClientProfile{}, domainerrors.ErrProfileNotFound
	}

	applyString(&profile.FirstName, patch.FirstName)
	applyString(&profile.LastName, patch.LastName)
	applyString(&profile.PhoneNumber, patch.PhoneNumber)
	applyString(&profile.CompanyName, patch.CompanyName)
	applyString(&profile.ProfileImageURL, patch.ProfileImageURL)
	profile.UpdatedAt = now.UTC()

	s.clientByUserID[userID] = profile
	return profile, nil
}

func (s *Store) nextID(prefix string) string {
	return fmt.Sprintf("%s_%06d", prefix, atomic.AddUint64(&s.sequence, 1))
}

func applyString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
