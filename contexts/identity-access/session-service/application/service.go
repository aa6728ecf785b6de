package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "caravan/contexts/identity-access/session-service/domain/errors"
	"caravan/contexts/identity-access/session-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

// Resolve builds the unified session context for one request. The driver
// store is probed before the client store; a user holding neither profile
// resolves to RoleNoProfile, which is a valid terminal state rather than an
// error. When both profiles exist both are surfaced, with driver keeping
// primary-role priority.
func (s Service) Resolve(ctx context.Context, userID string) (ports.SessionContext, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.SessionContext{}, domainerrors.ErrInvalidRequest
	}

	out := ports.SessionContext{
		UserID:      userID,
		Roles:       []ports.Role{},
		PrimaryRole: ports.RoleNoProfile,
	}

	driver, found, err := s.Repo.GetDriverProfileByUserID(ctx, userID)
	if err != nil {
		return ports.SessionContext{}, err
	}
	if found {
		out.Driver = &driver
		out.Roles = append(out.Roles, ports.RoleDriver)
		out.PrimaryRole = ports.RoleDriver
		out.Organisation = driver.Organisation()
	}

	client, found, err := s.Repo.GetClientProfileByUserID(ctx, userID)
	if err != nil {
		return ports.SessionContext{}, err
	}
	if found {
		out.Client = &client
		out.Roles = append(out.Roles, ports.RoleClient)
		if out.PrimaryRole == ports.RoleNoProfile {
			out.PrimaryRole = ports.RoleClient
			out.Organisation = client.Organisation()
		}
	}

	return out, nil
}

// FindOrganisationIDByUserID is the strict variant used by call sites that
// cannot proceed without an organisation; here an unprovisioned user is an
// error.
func (s Service) FindOrganisationIDByUserID(ctx context.Context, userID string) (string, error) {
	session, err := s.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}
	if session.PrimaryRole == ports.RoleNoProfile {
		return "", domainerrors.ErrProfileNotFound
	}
	return session.Organisation.OrganisationID, nil
}

func (s Service) CreateDriverProfile(ctx context.Context, input ports.CreateDriverProfileInput) (ports.DriverProfile, error) {
	if strings.TrimSpace(input.UserID) == "" ||
		strings.TrimSpace(input.OrganisationID) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return ports.DriverProfile{}, domainerrors.ErrInvalidRequest
	}
	profile, err := s.Repo.CreateDriverProfile(ctx, input, s.now())
	if err != nil {
		return ports.DriverProfile{}, err
	}

	ResolveLogger(s.Logger).Info("driver profile created",
		"event", "session_driver_profile_created",
		"module", "identity-access/session-service",
		"layer", "application",
		"user_id", profile.UserID,
		"organisation_id", profile.OrganisationID,
	)
	return profile, nil
}

func (s Service) CreateClientProfile(ctx context.Context, input ports.CreateClientProfileInput) (ports.ClientProfile, error) {
	if strings.TrimSpace(input.UserID) == "" ||
		strings.TrimSpace(input.OrganisationID) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return ports.ClientProfile{}, domainerrors.ErrInvalidRequest
	}
	profile, err := s.Repo.CreateClientProfile(ctx, input, s.now())
	if err != nil {
		return ports.ClientProfile{}, err
	}

	ResolveLogger(s.Logger).Info("client profile created",
		"event", "session_client_profile_created",
		"module", "identity-access/session-service",
		"layer", "application",
		"user_id", profile.UserID,
		"organisation_id", profile.OrganisationID,
	)
	return profile, nil
}

func (s Service) UpdateDriverProfile(ctx context.Context, userID string, patch ports.DriverProfilePatch) (ports.DriverProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.DriverProfile{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.UpdateDriverProfile(ctx, userID, patch, s.now())
}

func (s Service) UpdateClientProfile(ctx context.Context, userID string, patch ports.ClientProfilePatch) (ports.ClientProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.ClientProfile{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.UpdateClientProfile(ctx, userID, patch, s.now())
}

func (s Service) ListDriversByOrganisation(ctx context.Context, organisationID string) ([]ports.DriverProfile, error) {
	organisationID = strings.TrimSpace(organisationID)
	if organisationID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListDriverProfilesByOrganisation(ctx, organisationID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
