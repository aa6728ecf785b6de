package onboardingservice

import (
	"log/slog"
	"time"

	httpadapter "caravan/contexts/identity-access/onboarding-service/adapters/http"
	"caravan/contexts/identity-access/onboarding-service/adapters/memory"
	"caravan/contexts/identity-access/onboarding-service/application"
	"caravan/contexts/identity-access/onboarding-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Otp          ports.OtpLedger
	Identity     ports.IdentityGateway
	Organisation ports.OrganisationGateway
	Mailer       ports.OtpMailer
	Profiles     ports.ProfileWriter
	Clock        ports.Clock
	OtpTTL       time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Otp:          deps.Otp,
		Identity:     deps.Identity,
		Organisation: deps.Organisation,
		Mailer:       deps.Mailer,
		Profiles:     deps.Profiles,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
		OtpTTL:       deps.OtpTTL,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}
