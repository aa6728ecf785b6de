package httpserver

import (
	"context"
	"io"
	"log/slog"
	"time"

	notificationservice "caravan/contexts/engagement/notification-service"
	reviewservice "caravan/contexts/engagement/review-service"
	onboardingservice "caravan/contexts/identity-access/onboarding-service"
	onboardingmemory "caravan/contexts/identity-access/onboarding-service/adapters/memory"
	onboardingports "caravan/contexts/identity-access/onboarding-service/ports"
	sessionservice "caravan/contexts/identity-access/session-service"
	listingservice "caravan/contexts/marketplace/listing-service"
	"caravan/internal/platform/broadcast"
	"caravan/internal/platform/messaging"
	"caravan/internal/platform/observability"
)

// stubGateways answers every remote onboarding call with a fixed success so
// route tests exercise the HTTP surface, not the upstreams.
type stubGateways struct{}

func (stubGateways) ServiceToken(context.Context) (string, error) {
	return "svc-token", nil
}

func (stubGateways) Register(_ context.Context, input onboardingports.RegisterUserInput, _ string) (string, error) {
	return "usr_test", nil
}

func (stubGateways) Login(_ context.Context, email string, _ string, _ string) (onboardingports.LoginResult, bool, error) {
	return onboardingports.LoginResult{AccessToken: "tok-test", UserID: "usr_test", Email: email}, true, nil
}

func (stubGateways) Create(context.Context, onboardingports.CreateOrganisationInput, string) (string, error) {
	return "org_test", nil
}

func (stubGateways) SendOtpEmail(context.Context, string, string) error {
	return nil
}

type stubProfiles struct{}

func (stubProfiles) CreateDriverProfile(context.Context, onboardingports.NewProfile) (string, error) {
	return "prf_driver", nil
}

func (stubProfiles) CreateClientProfile(context.Context, onboardingports.NewProfile) (string, error) {
	return "prf_client", nil
}

type stubNotifier struct{}

func (stubNotifier) SendPush(context.Context, string, string, map[string]string) error {
	return nil
}

func (stubNotifier) SendEmail(context.Context, string, string, map[string]string) error {
	return nil
}

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messaging.NewBus(nil, logger)
	hub := broadcast.NewHub(logger)

	onboardingStore := onboardingmemory.NewStore()
	onboarding := onboardingservice.NewModule(onboardingservice.Dependencies{
		Otp:          onboardingStore,
		Identity:     stubGateways{},
		Organisation: stubGateways{},
		Mailer:       stubGateways{},
		Profiles:     stubProfiles{},
		Clock:        onboardingStore,
		OtpTTL:       10 * time.Minute,
		Logger:       logger,
	})
	onboarding.Store = onboardingStore

	modules := Modules{
		Session:       sessionservice.NewInMemoryModule(logger),
		Onboarding:    onboarding,
		Listings:      listingservice.NewInMemoryModule(logger, bus, hub),
		Notifications: notificationservice.NewInMemoryModule(logger, stubNotifier{}, bus),
		Reviews:       reviewservice.NewInMemoryModule(logger),
	}
	return New(modules, Dependencies{
		Logger:          logger,
		Metrics:         observability.NewMetrics("test"),
		Hub:             hub,
		OtpRequestRate:  1000,
		OtpRequestBurst: 1000,
	})
}
