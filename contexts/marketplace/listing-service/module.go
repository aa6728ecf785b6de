package listingservice

import (
	"log/slog"

	httpadapter "caravan/contexts/marketplace/listing-service/adapters/http"
	"caravan/contexts/marketplace/listing-service/adapters/memory"
	"caravan/contexts/marketplace/listing-service/application"
	"caravan/contexts/marketplace/listing-service/application/workers"
	"caravan/contexts/marketplace/listing-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxWriter
	OutboxRows  ports.OutboxRepository
	Publisher   ports.EventPublisher
	Broadcast   ports.BroadcastPort
	Transitions ports.TransitionCounter
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Listings:    deps.Repository,
		Outbox:      deps.Outbox,
		Broadcast:   deps.Broadcast,
		Transitions: deps.Transitions,
		Clock:       deps.Clock,
		IDs:         deps.IDs,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRows,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger, publisher ports.EventPublisher, broadcast ports.BroadcastPort) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		OutboxRows: store,
		Publisher:  publisher,
		Broadcast:  broadcast,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
