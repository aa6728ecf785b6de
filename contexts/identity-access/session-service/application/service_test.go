package application

import (
	"context"
	"errors"
	"testing"

	"caravan/contexts/identity-access/session-service/adapters/memory"
	domainerrors "caravan/contexts/identity-access/session-service/domain/errors"
	"caravan/contexts/identity-access/session-service/ports"
)

func newService(store *memory.Store) Service {
	return Service{Repo: store, Clock: store}
}

func seedDriver(t *testing.T, service Service, userID string) ports.DriverProfile {
	t.Helper()
	profile, err := service.CreateDriverProfile(context.Background(), ports.CreateDriverProfileInput{
		UserID:         userID,
		OrganisationID: "org_alpha",
		FirstName:      "Dana",
		LastName:       "Driver",
		Email:          userID + "@example.com",
		CompanyName:    "Alpha Transports",
	})
	if err != nil {
		t.Fatalf("seed driver failed: %v", err)
	}
	return profile
}

func seedClient(t *testing.T, service Service, userID string) ports.ClientProfile {
	t.Helper()
	profile, err := service.CreateClientProfile(context.Background(), ports.CreateClientProfileInput{
		UserID:         userID,
		OrganisationID: "org_beta",
		FirstName:      "Cleo",
		LastName:       "Client",
		Email:          userID + "@example.com",
		CompanyName:    "Beta Logistics",
	})
	if err != nil {
		t.Fatalf("seed client failed: %v", err)
	}
	return profile
}

func TestResolveNoProfileIsTerminalNotError(t *testing.T) {
	service := newService(memory.NewStore())

	session, err := service.Resolve(context.Background(), "user_unprovisioned")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.PrimaryRole != ports.RoleNoProfile {
		t.Fatalf("expected NO_PROFILE primary role, got %s", session.PrimaryRole)
	}
	if len(session.Roles) != 0 {
		t.Fatalf("expected empty role set, got %v", session.Roles)
	}
	if session.Driver != nil || session.Client != nil {
		t.Fatalf("expected no profile payload")
	}
}

func TestResolveDriverFirstWhenDualRole(t *testing.T) {
	service := newService(memory.NewStore())
	seedDriver(t, service, "user_dual")

	_, err := service.CreateClientProfile(context.Background(), ports.CreateClientProfileInput{
		UserID:         "user_dual",
		OrganisationID: "org_beta",
		Email:          "user_dual@example.com",
		CompanyName:    "Beta Logistics",
	})
	if err != nil {
		t.Fatalf("create client profile failed: %v", err)
	}

	session, err := service.Resolve(context.Background(), "user_dual")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.PrimaryRole != ports.RoleDriver {
		t.Fatalf("expected driver-first resolution, got %s", session.PrimaryRole)
	}
	if len(session.Roles) != 2 {
		t.Fatalf("expected both roles surfaced, got %v", session.Roles)
	}
	if session.Organisation.OrganisationID != "org_alpha" {
		t.Fatalf("expected driver organisation to win, got %s", session.Organisation.OrganisationID)
	}
	if session.Client == nil {
		t.Fatalf("expected client profile surfaced alongside driver")
	}
}

func TestResolveClientOnly(t *testing.T) {
	service := newService(memory.NewStore())
	seedClient(t, service, "user_client")

	session, err := service.Resolve(context.Background(), "user_client")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.PrimaryRole != ports.RoleClient {
		t.Fatalf("expected client role, got %s", session.PrimaryRole)
	}
	if session.Organisation.DisplayName != "Beta Logistics" {
		t.Fatalf("expected locally synthesized organisation name, got %q", session.Organisation.DisplayName)
	}
}

func TestFindOrganisationIDRequiresProfile(t *testing.T) {
	service := newService(memory.NewStore())

	_, err := service.FindOrganisationIDByUserID(context.Background(), "user_missing")
	if !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	seedDriver(t, service, "user_present")
	orgID, err := service.FindOrganisationIDByUserID(context.Background(), "user_present")
	if err != nil {
		t.Fatalf("find organisation failed: %v", err)
	}
	if orgID != "org_alpha" {
		t.Fatalf("unexpected organisation id %s", orgID)
	}
}

func TestDuplicateProfileKindRejected(t *testing.T) {
	service := newService(memory.NewStore())
	seedDriver(t, service, "user_once")

	_, err := service.CreateDriverProfile(context.Background(), ports.CreateDriverProfileInput{
		UserID:         "user_once",
		OrganisationID: "org_other",
		Email:          "user_once@example.com",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateProfile) {
		t.Fatalf("expected ErrDuplicateProfile, got %v", err)
	}
}

func TestUpdateDriverProfilePartialMerge(t *testing.T) {
	service := newService(memory.NewStore())
	seedDriver(t, service, "user_merge")

	phone := "+33123456789"
	updated, err := service.UpdateDriverProfile(context.Background(), "user_merge", ports.DriverProfilePatch{
		PhoneNumber: &phone,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PhoneNumber != phone {
		t.Fatalf("expected phone updated, got %q", updated.PhoneNumber)
	}
	if updated.FirstName != "Dana" {
		t.Fatalf("expected untouched fields to survive merge, got %q", updated.FirstName)
	}
	if updated.CompanyName != "Alpha Transports" {
		t.Fatalf("expected company name retained, got %q", updated.CompanyName)
	}
}
