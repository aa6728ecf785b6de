package reviewservice

import (
	"log/slog"

	httpadapter "caravan/contexts/engagement/review-service/adapters/http"
	"caravan/contexts/engagement/review-service/adapters/memory"
	"caravan/contexts/engagement/review-service/application"
	"caravan/contexts/engagement/review-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Authors    ports.AuthorDirectory
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Reviews: deps.Repository,
		Authors: deps.Authors,
		Clock:   deps.Clock,
		IDs:     deps.IDs,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Authors:    store,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
