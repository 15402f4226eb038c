// Package app composes the calculator services and manages their
// lifecycle. Business logic lives in internal/app/services; this package
// only wires dependencies together.
package app

import (
	"context"
	"fmt"

	"github.com/mcplab/calcserver/internal/app/services/calculator"
	"github.com/mcplab/calcserver/internal/app/services/history"
	"github.com/mcplab/calcserver/internal/app/storage"
	"github.com/mcplab/calcserver/internal/app/storage/memory"
	"github.com/mcplab/calcserver/internal/app/system"
	"github.com/mcplab/calcserver/pkg/logger"
)

// Stores encapsulates persistence dependencies. A nil store defaults to
// the in-memory implementation.
type Stores struct {
	History storage.HistoryStore
}

// Application ties the domain services together.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Calculator *calculator.Service
	History    *history.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	if stores.History == nil {
		stores.History = memory.New()
	}

	manager := system.NewManager()

	historyService := history.New(stores.History, log)
	calcService := calculator.New(stores.History, log)

	for _, name := range []string{"calculator", "history"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return &Application{
		manager:    manager,
		log:        log,
		Calculator: calcService,
		History:    historyService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
