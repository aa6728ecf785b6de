package notificationservice

import (
	"log/slog"

	httpadapter "caravan/contexts/engagement/notification-service/adapters/http"
	"caravan/contexts/engagement/notification-service/adapters/memory"
	"caravan/contexts/engagement/notification-service/application"
	"caravan/contexts/engagement/notification-service/application/workers"
	"caravan/contexts/engagement/notification-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Service  application.Service
	Consumer workers.ListingEventConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Tokens     ports.DeviceTokenRepository
	Audience   ports.AudienceDirectory
	Notifier   ports.Notifier
	Deliveries ports.DeliveryCounter
	Source     ports.EventSource
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Tokens:     deps.Tokens,
		Audience:   deps.Audience,
		Notifier:   deps.Notifier,
		Deliveries: deps.Deliveries,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		Consumer: workers.ListingEventConsumer{
			Source:  deps.Source,
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger, notifier ports.Notifier, source ports.EventSource) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Tokens:   store,
		Audience: store,
		Notifier: notifier,
		Source:   source,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
