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

// AccountKind selects which role profile the onboarding transaction
// provisions.
type AccountKind string

const (
	AccountKindDriver AccountKind = "driver"
	AccountKindClient AccountKind = "client"
)

func IsValidAccountKind(kind AccountKind) bool {
	switch kind {
	case AccountKindDriver, AccountKindClient:
		return true
	default:
		return false
	}
}

// OtpRecord is a short-lived single-use verification code keyed by email.
// Exactly one live record per email; a new request overwrites.
type OtpRecord struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

type OtpLedger interface {
	Put(ctx context.Context, record OtpRecord) error
	Get(ctx context.Context, email string) (OtpRecord, bool, error)
	Delete(ctx context.Context, email string) error
}

type RegisterUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type LoginResult struct {
	AccessToken string
	UserID      string
	Email       string
}

// IdentityGateway wraps the external auth service. Login returns ok=false
// with a nil error on the upstream's invalid-credentials response so callers
// can distinguish the documented soft-fail from transport errors.
type IdentityGateway interface {
	ServiceToken(ctx context.Context) (string, error)
	Register(ctx context.Context, input RegisterUserInput, serviceToken string) (string, error)
	Login(ctx context.Context, email string, password string, serviceToken string) (LoginResult, bool, error)
}

type CreateOrganisationInput struct {
	LongName     string
	ShortName    string
	LegalForm    string
	Description  string
	OwnerContact string
}

type OrganisationGateway interface {
	Create(ctx context.Context, input CreateOrganisationInput, userToken string) (string, error)
}

type OtpMailer interface {
	SendOtpEmail(ctx context.Context, email string, code string) error
}

// ProfileWriter persists the local role profile row at the end of the
// onboarding transaction. Implemented over the session-service store at
// bootstrap.
type ProfileWriter interface {
	CreateDriverProfile(ctx context.Context, profile NewProfile) (string, error)
	CreateClientProfile(ctx context.Context, profile NewProfile) (string, error)
}

type NewProfile struct {
	UserID         string
	OrganisationID string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	CompanyName    string
}

type CreateAccountInput struct {
	Kind        AccountKind
	Email       string
	Password    string
	OtpCode     string
	FirstName   string
	LastName    string
	PhoneNumber string
	CompanyName string
	LegalForm   string
	Description string
}

// Session is the onboarding result: a token usable for subsequent
// authenticated calls bundled with the newly provisioned profile.
type Session struct {
	AccessToken    string
	UserID         string
	OrganisationID string
	ProfileID      string
	Kind           AccountKind
}
