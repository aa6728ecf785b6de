package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Role tags the two disjoint profile kinds plus the authenticated-but-
// unprovisioned terminal state.
type Role string

const (
	RoleDriver    Role = "DRIVER"
	RoleClient    Role = "CLIENT"
	RoleNoProfile Role = "NO_PROFILE"
)

func IsValidRole(role Role) bool {
	switch role {
	case RoleDriver, RoleClient:
		return true
	default:
		return false
	}
}

// OrganisationView is the locally synthesized organisation summary. It is
// derived from profile rows, never re-fetched from the organisation gateway
// on the session path.
type OrganisationView struct {
	OrganisationID string
	DisplayName    string
}

type DriverProfile struct {
	ProfileID       string
	UserID          string
	OrganisationID  string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	CompanyName     string
	ProfileImageURL string
	VehiclePlate    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DriverProfile) Kind() Role { return RoleDriver }

func (p DriverProfile) Organisation() OrganisationView {
	return OrganisationView{OrganisationID: p.OrganisationID, DisplayName: p.CompanyName}
}

type ClientProfile struct {
	ProfileID       string
	UserID          string
	OrganisationID  string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	CompanyName     string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ClientProfile) Kind() Role { return RoleClient }

func (p ClientProfile) Organisation() OrganisationView {
	return OrganisationView{OrganisationID: p.OrganisationID, DisplayName: p.CompanyName}
}

// RoleProfile is the tagged union over the two profile kinds. Consumption
// sites switch on Kind() exhaustively instead of inspecting concrete types.
type RoleProfile interface {
	Kind() Role
	Organisation() OrganisationView
}

// SessionContext is derived per request, never stored. Roles lists every
// kind the user holds; PrimaryRole keeps the driver-first resolution order
// for single-role call sites.
type SessionContext struct {
	UserID       string
	Roles        []Role
	PrimaryRole  Role
	Driver       *DriverProfile
	Client       *ClientProfile
	Organisation OrganisationView
}

// DriverProfilePatch carries a field-level merge; only non-nil fields
// overwrite the stored row.
type DriverProfilePatch struct {
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	CompanyName     *string
	ProfileImageURL *string
	VehiclePlate    *string
}

type ClientProfilePatch struct {
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	CompanyName     *string
	ProfileImageURL *string
}

type CreateDriverProfileInput struct {
	UserID          string
	OrganisationID  string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	CompanyName     string
	ProfileImageURL string
	VehiclePlate    string
}

type CreateClientProfileInput struct {
	UserID          string
	OrganisationID  string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	CompanyName     string
	ProfileImageURL string
}

type Repository interface {
	GetDriverProfileByUserID(ctx context.Context, userID string) (DriverProfile, bool, error)
	GetClientProfileByUserID(ctx context.Context, userID string) (ClientProfile, bool, error)
	ListDriverProfilesByOrganisation(ctx context.Context, organisationID string) ([]DriverProfile, error)
	CreateDriverProfile(ctx context.Context, input CreateDriverProfileInput, now time.Time) (DriverProfile, error)
	CreateClientProfile(ctx context.Context, input CreateClientProfileInput, now time.Time) (ClientProfile, error)
	UpdateDriverProfile(ctx context.Context, userID string, patch DriverProfilePatch, now time.Time) (DriverProfile, error)
	UpdateClientProfile(ctx context.Context, userID string, patch ClientProfilePatch, now time.Time) (ClientProfile, error)
}
