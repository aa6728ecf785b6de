package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"caravan/contexts/identity-access/onboarding-service/adapters/memory"
	domainerrors "caravan/contexts/identity-access/onboarding-service/domain/errors"
	"caravan/contexts/identity-access/onboarding-service/ports"
)

type fakeGateways struct {
	calls []string

	registerErr    error
	loginErr       error
	loginRejected  bool
	organisationEr error
	profileErr     error

	registeredUserID string
	organisationID   string
}

func newFakeGateways() *fakeGateways {
	return &fakeGateways{
		registeredUserID: "user_remote_1",
		organisationID:   "org_remote_1",
	}
}

func (f *fakeGateways) ServiceToken(_ context.Context) (string, error) {
	f.calls = append(f.calls, "service_token")
	return "m2m-token", nil
}

func (f *fakeGateways) Register(_ context.Context, _ ports.RegisterUserInput, _ string) (string, error) {
	f.calls = append(f.calls, "register")
	if f.registerErr != nil {
		return "", f.registerErr
	}
	return f.registeredUserID, nil
}

func (f *fakeGateways) Login(_ context.Context, email string, _ string, _ string) (ports.LoginResult, bool, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return ports.LoginResult{}, false, f.loginErr
	}
	if f.loginRejected {
		return ports.LoginResult{}, false, nil
	}
	return ports.LoginResult{AccessToken: "user-token", UserID: f.registeredUserID, Email: email}, true, nil
}

func (f *fakeGateways) Create(_ context.Context, input ports.CreateOrganisationInput, _ string) (string, error) {
	f.calls = append(f.calls, "organisation:"+input.ShortName)
	if f.organisationEr != nil {
		return "", f.organisationEr
	}
	return f.organisationID, nil
}

func (f *fakeGateways) SendOtpEmail(_ context.Context, _ string, _ string) error {
	f.calls = append(f.calls, "mail")
	return nil
}

func (f *fakeGateways) CreateDriverProfile(_ context.Context, profile ports.NewProfile) (string, error) {
	f.calls = append(f.calls, "profile_driver")
	if f.profileErr != nil {
		return "", f.profileErr
	}
	return "drv_000001", nil
}

func (f *fakeGateways) CreateClientProfile(_ context.Context, profile ports.NewProfile) (string, error) {
	f.calls = append(f.calls, "profile_client")
	if f.profileErr != nil {
		return "", f.profileErr
	}
	return "cli_000001", nil
}

func newService(store *memory.Store, gw *fakeGateways) Service {
	return Service{
		Otp:          store,
		Identity:     gw,
		Organisation: gw,
		Mailer:       gw,
		Profiles:     gw,
		Clock:        store,
		OtpTTL:       10 * time.Minute,
	}
}

func seedOtp(t *testing.T, store *memory.Store, email string, code string, expiresAt time.Time) {
	t.Helper()
	err := store.Put(context.Background(), ports.OtpRecord{Email: email, Code: code, ExpiresAt: expiresAt})
	if err != nil {
		t.Fatalf("seed otp failed: %v", err)
	}
}

func validInput(kind ports.AccountKind) ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Kind:        kind,
		Email:       "owner@example.com",
		Password:    "correct-horse",
		OtpCode:     "123456",
		FirstName:   "Omar",
		LastName:    "Owner",
		CompanyName: "Rapid Courier Services",
	}
}

func TestVerifyOtpIsSingleUse(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, newFakeGateways())
	seedOtp(t, store, "a@b.com", "123456", time.Now().UTC().Add(time.Minute))

	if err := service.VerifyOtp(context.Background(), "a@b.com", "123456"); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	err := service.VerifyOtp(context.Background(), "a@b.com", "123456")
	if !errors.Is(err, domainerrors.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound on replay, got %v", err)
	}
}

func TestVerifyOtpExpiredDeletesRecord(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, newFakeGateways())
	seedOtp(t, store, "a@b.com", "123456", time.Now().UTC().Add(-time.Second))

	err := service.VerifyOtp(context.Background(), "a@b.com", "123456")
	if !errors.Is(err, domainerrors.ErrOtpExpired) {
		t.Fatalf("expected ErrOtpExpired, got %v", err)
	}

	_, found, err := store.Get(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Fatalf("expected stale record deleted as a side effect")
	}
}

func TestVerifyOtpMismatchKeepsRecordForRetry(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, newFakeGateways())
	seedOtp(t, store, "a@b.com", "123456", time.Now().UTC().Add(time.Minute))

	err := service.VerifyOtp(context.Background(), "a@b.com", "654321")
	if !errors.Is(err, domainerrors.ErrOtpMismatch) {
		t.Fatalf("expected ErrOtpMismatch, got %v", err)
	}

	if err := service.VerifyOtp(context.Background(), "a@b.com", "123456"); err != nil {
		t.Fatalf("retry with correct code failed: %v", err)
	}
}

func TestRequestOtpOverwritesLiveCode(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	service := newService(store, gw)

	if err := service.RequestOtp(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	first, _, _ := store.Get(context.Background(), "a@b.com")

	if err := service.RequestOtp(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	second, found, _ := store.Get(context.Background(), "a@b.com")
	if !found {
		t.Fatalf("expected live record after second request")
	}
	if first.Code == second.Code && first.ExpiresAt.Equal(second.ExpiresAt) {
		t.Fatalf("expected second request to overwrite the record")
	}
	if len(gw.calls) != 2 {
		t.Fatalf("expected one mail per request, got %v", gw.calls)
	}
}

func TestCreateAccountHappyPathOrdering(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	service := newService(store, gw)
	seedOtp(t, store, "owner@example.com", "123456", time.Now().UTC().Add(time.Minute))

	session, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindDriver))
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if session.AccessToken != "user-token" || session.UserID != "user_remote_1" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.OrganisationID != "org_remote_1" || session.ProfileID != "drv_000001" {
		t.Fatalf("unexpected provisioning result %+v", session)
	}

	want := []string{"service_token", "register", "login", "organisation:RCS", "profile_driver"}
	if fmt.Sprint(gw.calls) != fmt.Sprint(want) {
		t.Fatalf("unexpected gate order %v, want %v", gw.calls, want)
	}

	_, found, _ := store.Get(context.Background(), "owner@example.com")
	if found {
		t.Fatalf("expected otp consumed by account creation")
	}
}

func TestCreateAccountClientKind(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	service := newService(store, gw)
	seedOtp(t, store, "owner@example.com", "123456", time.Now().UTC().Add(time.Minute))

	session, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindClient))
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if session.ProfileID != "cli_000001" || session.Kind != ports.AccountKindClient {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestCreateAccountOtpGateBlocksRemoteCalls(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	service := newService(store, gw)

	_, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindDriver))
	if !errors.Is(err, domainerrors.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("expected no remote calls before the otp gate, got %v", gw.calls)
	}
}

func TestCreateAccountRegistrationFailurePassesDetailThrough(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	gw.registerErr = errors.New("email already registered")
	service := newService(store, gw)
	seedOtp(t, store, "owner@example.com", "123456", time.Now().UTC().Add(time.Minute))

	_, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindDriver))
	if !errors.Is(err, domainerrors.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "email already registered") {
		t.Fatalf("expected upstream detail carried verbatim, got %q", got)
	}
}

func TestCreateAccountLoginSoftFailMapsToLoginFailed(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	gw.loginRejected = true
	service := newService(store, gw)
	seedOtp(t, store, "owner@example.com", "123456", time.Now().UTC().Add(time.Minute))

	_, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindDriver))
	if !errors.Is(err, domainerrors.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestCreateAccountProfileFailureLeavesRemoteAccount(t *testing.T) {
	store := memory.NewStore()
	gw := newFakeGateways()
	gw.profileErr = errors.New("profile store unavailable")
	service := newService(store, gw)
	seedOtp(t, store, "owner@example.com", "123456", time.Now().UTC().Add(time.Minute))

	_, err := service.CreateAccount(context.Background(), validInput(ports.AccountKindDriver))
	if err == nil {
		t.Fatalf("expected failure")
	}

	// No compensation: remote registration already happened.
	if fmt.Sprint(gw.calls[:2]) != fmt.Sprint([]string{"service_token", "register"}) {
		t.Fatalf("unexpected call order %v", gw.calls)
	}
}

func TestDeriveShortName(t *testing.T) {
	cases := []struct {
		longName string
		want     string
	}{
		{"Rapid Courier Services", "RCS"},
		{"alpha beta", "AB"},
		{"Solo", "SOL"},
		{"ab", "AB"},
		{"les transporteurs unis", "LTU"},
	}
	for _, tc := range cases {
		if got := deriveShortName(tc.longName); got != tc.want {
			t.Fatalf("deriveShortName(%q) = %q, want %q", tc.longName, got, tc.want)
		}
	}
}
