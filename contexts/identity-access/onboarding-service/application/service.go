package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	domainerrors "caravan/contexts/identity-access/onboarding-service/domain/errors"
	"caravan/contexts/identity-access/onboarding-service/ports"
)

type Service struct {
	Otp          ports.OtpLedger
	Identity     ports.IdentityGateway
	Organisation ports.OrganisationGateway
	Mailer       ports.OtpMailer
	Profiles     ports.ProfileWriter
	Clock        ports.Clock
	Logger       *slog.Logger
	OtpTTL       time.Duration
}

// RequestOtp issues a fresh 6-digit code for the email, overwriting any live
// code, and mails it. Mail delivery failure surfaces as an upstream error:
// a code the user never receives is worse than a retryable request.
func (s Service) RequestOtp(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domainerrors.ErrInvalidRequest
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}
	record := ports.OtpRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL()),
	}
	if err := s.Otp.Put(ctx, record); err != nil {
		return err
	}
	if err := s.Mailer.SendOtpEmail(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrUpstream, err.Error())
	}

	ResolveLogger(s.Logger).Info("otp issued",
		"event", "onboarding_otp_issued",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"email", email,
	)
	return nil
}

// VerifyOtp enforces single use: a correct code consumes the record, an
// expired record is deleted as a cleanup side effect, a mismatched code
// leaves the record in place so the user can retry.
func (s Service) VerifyOtp(ctx context.Context, email string, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.consumeOtp(ctx, email, code)
}

// CreateAccount runs the multi-step signup transaction. Steps are strictly
// ordered hard gates with no compensation: a failure after remote
// registration leaves the remote account without a local profile, which is
// logged loudly for manual reconciliation.
func (s Service) CreateAccount(ctx context.Context, input ports.CreateAccountInput) (ports.Session, error) {
	logger := ResolveLogger(s.Logger)

	input.Email = normalizeEmail(input.Email)
	if !ports.IsValidAccountKind(input.Kind) {
		return ports.Session{}, domainerrors.ErrUnknownKind
	}
	if input.Email == "" ||
		strings.TrimSpace(input.Password) == "" ||
		strings.TrimSpace(input.OtpCode) == "" ||
		strings.TrimSpace(input.CompanyName) == "" {
		return ports.Session{}, domainerrors.ErrInvalidRequest
	}

	// 1) OTP gate.
	if err := s.consumeOtp(ctx, input.Email, strings.TrimSpace(input.OtpCode)); err != nil {
		return ports.Session{}, err
	}

	// 2) Remote registration under an M2M credential. Upstream detail is
	// passed through verbatim for client-side diagnostics.
	serviceToken, err := s.Identity.ServiceToken(ctx)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %s", domainerrors.ErrUpstream, err.Error())
	}
	userID, err := s.Identity.Register(ctx, ports.RegisterUserInput{
		Email:       input.Email,
		Password:    input.Password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
	}, serviceToken)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %s", domainerrors.ErrRegistrationFailed, err.Error())
	}

	// 3) Immediate login for the session token. The upstream answers
	// invalid credentials with an empty body rather than an error status;
	// for a just-registered account either one means login failed.
	login, ok, err := s.Identity.Login(ctx, input.Email, input.Password, serviceToken)
	if err != nil {
		return ports.Session{}, s.abandon(logger, userID, input.Email, "login",
			fmt.Errorf("%w: %s", domainerrors.ErrLoginFailed, err.Error()))
	}
	if !ok {
		return ports.Session{}, s.abandon(logger, userID, input.Email, "login",
			domainerrors.ErrLoginFailed)
	}

	// 4) Organisation provisioning with the user's own token.
	organisationID, err := s.Organisation.Create(ctx, ports.CreateOrganisationInput{
		LongName:     input.CompanyName,
		ShortName:    deriveShortName(input.CompanyName),
		LegalForm:    input.LegalForm,
		Description:  input.Description,
		OwnerContact: input.Email,
	}, login.AccessToken)
	if err != nil {
		return ports.Session{}, s.abandon(logger, userID, input.Email, "organisation",
			fmt.Errorf("%w: %s", domainerrors.ErrUpstream, err.Error()))
	}

	// 5) Local role profile persistence.
	profile := ports.NewProfile{
		UserID:         userID,
		OrganisationID: organisationID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		CompanyName:    input.CompanyName,
	}
	var profileID string
	switch input.Kind {
	case ports.AccountKindDriver:
		profileID, err = s.Profiles.CreateDriverProfile(ctx, profile)
	case ports.AccountKindClient:
		profileID, err = s.Profiles.CreateClientProfile(ctx, profile)
	default:
		return ports.Session{}, domainerrors.ErrUnknownKind
	}
	if err != nil {
		return ports.Session{}, s.abandon(logger, userID, input.Email, "profile", err)
	}

	logger.Info("account onboarded",
		"event", "onboarding_account_created",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"user_id", userID,
		"organisation_id", organisationID,
		"kind", string(input.Kind),
	)
	return ports.Session{
		AccessToken:    login.AccessToken,
		UserID:         userID,
		OrganisationID: organisationID,
		ProfileID:      profileID,
		Kind:           input.Kind,
	}, nil
}

func (s Service) consumeOtp(ctx context.Context, email string, code string) error {
	record, found, err := s.Otp.Get(ctx, email)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrOtpNotFound
	}
	if record.ExpiresAt.Before(s.now()) {
		// Stale records are removed even though verification fails.
		if err := s.Otp.Delete(ctx, email); err != nil {
			return err
		}
		return domainerrors.ErrOtpExpired
	}
	if record.Code != code {
		return domainerrors.ErrOtpMismatch
	}
	return s.Otp.Delete(ctx, email)
}

// abandon records the unrepaired partial state left behind when a step
// fails after the remote account already exists.
func (s Service) abandon(logger *slog.Logger, userID string, email string, step string, err error) error {
	logger.Error("onboarding abandoned after remote registration",
		"event", "onboarding_partial_failure",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"remote_user_id", userID,
		"email", email,
		"failed_step", step,
		"error", err.Error(),
	)
	return err
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) otpTTL() time.Duration {
	if s.OtpTTL <= 0 {
		return 10 * time.Minute
	}
	return s.OtpTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// deriveShortName builds the organisation short name from the company name:
// uppercased initials of whitespace-separated words, or the first three
// characters when there are fewer than two words.
func deriveShortName(longName string) string {
	words := strings.Fields(longName)
	if len(words) >= 2 {
		var b strings.Builder
		for _, word := range words {
			runes := []rune(word)
			b.WriteString(strings.ToUpper(string(runes[:1])))
		}
		return b.String()
	}

	runes := []rune(strings.TrimSpace(longName))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

func generateOtpCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
