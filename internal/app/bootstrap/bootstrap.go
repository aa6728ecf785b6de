package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationservice "caravan/contexts/engagement/notification-service"
	notificationhttpclient "caravan/contexts/engagement/notification-service/adapters/httpclient"
	notificationpostgres "caravan/contexts/engagement/notification-service/adapters/postgres"
	notificationworkers "caravan/contexts/engagement/notification-service/application/workers"
	reviewservice "caravan/contexts/engagement/review-service"
	reviewpostgres "caravan/contexts/engagement/review-service/adapters/postgres"
	onboardingservice "caravan/contexts/identity-access/onboarding-service"
	onboardinghttpclient "caravan/contexts/identity-access/onboarding-service/adapters/httpclient"
	onboardingpostgres "caravan/contexts/identity-access/onboarding-service/adapters/postgres"
	onboardingredis "caravan/contexts/identity-access/onboarding-service/adapters/redis"
	onboardingerrors "caravan/contexts/identity-access/onboarding-service/domain/errors"
	onboardingports "caravan/contexts/identity-access/onboarding-service/ports"
	sessionservice "caravan/contexts/identity-access/session-service"
	sessionpostgres "caravan/contexts/identity-access/session-service/adapters/postgres"
	sessionapplication "caravan/contexts/identity-access/session-service/application"
	sessionerrors "caravan/contexts/identity-access/session-service/domain/errors"
	sessionports "caravan/contexts/identity-access/session-service/ports"
	listingservice "caravan/contexts/marketplace/listing-service"
	listingpostgres "caravan/contexts/marketplace/listing-service/adapters/postgres"
	listingworkers "caravan/contexts/marketplace/listing-service/application/workers"
	"caravan/internal/platform/broadcast"
	"caravan/internal/platform/config"
	"caravan/internal/platform/db"
	"caravan/internal/platform/httpserver"
	"caravan/internal/platform/messaging"
	"caravan/internal/platform/observability"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	bus      *messaging.Bus
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres       *db.Postgres
	bus            *messaging.Bus
	relay          listingworkers.OutboxRelay
	consumer       notificationworkers.ListingEventConsumer
	pollInterval   time.Duration
	enableRelay    bool
	enableConsumer bool
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics(cfg.ServiceName)
	hub := broadcast.NewHub(logger)
	bus := messaging.NewBus(cfg.KafkaBrokers, logger)

	sessionModule := sessionservice.NewModule(sessionservice.Dependencies{
		Repository: sessionpostgres.NewRepository(pg.DB, logger),
		Clock:      sessionpostgres.SystemClock{},
		Logger:     logger,
	})

	var otpLedger onboardingports.OtpLedger
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		otpLedger = onboardingredis.NewOtpLedger(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		otpLedger = onboardingpostgres.NewRepository(pg.DB)
	}

	onboardingModule := onboardingservice.NewModule(onboardingservice.Dependencies{
		Otp:          otpLedger,
		Identity:     onboardinghttpclient.NewIdentityClient(cfg.IdentityBaseURL, cfg.IdentityClientID, cfg.IdentityClientSecret),
		Organisation: onboardinghttpclient.NewOrganisationClient(cfg.OrganisationBaseURL),
		Mailer:       onboardinghttpclient.NewMailerClient(cfg.NotifierBaseURL),
		Profiles:     profileBridge{session: sessionModule.Service},
		Clock:        sessionpostgres.SystemClock{},
		OtpTTL:       cfg.OtpTTL,
		Logger:       logger,
	})

	listingRepo := listingpostgres.NewRepository(pg.DB, logger)
	listingModule := listingservice.NewModule(listingservice.Dependencies{
		Repository:  listingRepo,
		Outbox:      listingRepo,
		OutboxRows:  listingRepo,
		Publisher:   bus,
		Broadcast:   hub,
		Transitions: metrics,
		Clock:       listingpostgres.SystemClock{},
		IDs:         listingpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Tokens:     notificationpostgres.NewRepository(pg.DB, logger),
		Audience:   notificationpostgres.NewAudienceDirectory(pg.DB),
		Notifier:   notificationhttpclient.NewNotifierClient(cfg.NotifierBaseURL),
		Deliveries: metrics,
		Source:     bus,
		Clock:      notificationpostgres.SystemClock{},
		Logger:     logger,
	})

	reviewModule := reviewservice.NewModule(reviewservice.Dependencies{
		Repository: reviewpostgres.NewRepository(pg.DB, logger),
		Authors:    reviewpostgres.NewAuthorDirectory(pg.DB),
		Clock:      reviewpostgres.SystemClock{},
		IDs:        reviewpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(httpserver.Modules{
		Session:       sessionModule,
		Onboarding:    onboardingModule,
		Listings:      listingModule,
		Notifications: notificationModule,
		Reviews:       reviewModule,
	}, httpserver.Dependencies{
		Logger:          logger,
		Addr:            normalizeAddr(cfg.HTTPPort),
		Metrics:         metrics,
		Hub:             hub,
		OtpRequestRate:  cfg.OtpRequestRate,
		OtpRequestBurst: cfg.OtpRequestBurst,
	})

	return &APIApp{
		server:   server,
		postgres: pg,
		bus:      bus,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics(cfg.ServiceName)
	bus := messaging.NewBus(cfg.KafkaBrokers, logger)

	listingRepo := listingpostgres.NewRepository(pg.DB, logger)
	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Tokens:     notificationpostgres.NewRepository(pg.DB, logger),
		Audience:   notificationpostgres.NewAudienceDirectory(pg.DB),
		Notifier:   notificationhttpclient.NewNotifierClient(cfg.NotifierBaseURL),
		Deliveries: metrics,
		Source:     bus,
		Clock:      notificationpostgres.SystemClock{},
		Logger:     logger,
	})

	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		relay: listingworkers.OutboxRelay{
			Outbox:    listingRepo,
			Publisher: bus,
			Clock:     listingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		consumer:       notificationModule.Consumer,
		pollInterval:   cfg.WorkerPollInterval,
		enableRelay:    cfg.EnableOutboxRelay,
		enableConsumer: cfg.EnableNotificationConsumer,
		logger:         logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	consumerErr := make(chan error, 1)
	if w.enableConsumer {
		go func() {
			consumerErr <- w.consumer.Run(ctx)
		}()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay", w.enableRelay,
		"notification_consumer", w.enableConsumer,
	)

	for {
		if w.enableRelay {
			if err := w.relay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-consumerErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.bus != nil {
		_ = w.bus.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// profileBridge adapts the session context's profile writes to the
// onboarding transaction's final gate.
type profileBridge struct {
	session sessionapplication.Service
}

func (b profileBridge) CreateDriverProfile(ctx context.Context, profile onboardingports.NewProfile) (string, error) {
	created, err := b.session.CreateDriverProfile(ctx, sessionports.CreateDriverProfileInput{
		UserID:         profile.UserID,
		OrganisationID: profile.OrganisationID,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Email:          profile.Email,
		PhoneNumber:    profile.PhoneNumber,
		CompanyName:    profile.CompanyName,
	})
	if err != nil {
		return "", mapProfileError(err)
	}
	return created.ProfileID, nil
}

func (b profileBridge) CreateClientProfile(ctx context.Context, profile onboardingports.NewProfile) (string, error) {
	created, err := b.session.CreateClientProfile(ctx, sessionports.CreateClientProfileInput{
		UserID:         profile.UserID,
		OrganisationID: profile.OrganisationID,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Email:          profile.Email,
		PhoneNumber:    profile.PhoneNumber,
		CompanyName:    profile.CompanyName,
	})
	if err != nil {
		return "", mapProfileError(err)
	}
	return created.ProfileID, nil
}

func mapProfileError(err error) error {
	if errors.Is(err, sessionerrors.ErrDuplicateProfile) {
		return onboardingerrors.ErrProfileConflict
	}
	return err
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
