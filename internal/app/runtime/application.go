// Package runtime wires configuration, storage, services and the HTTP
// server into a runnable application.
package runtime

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	app "github.com/mcplab/calcserver/internal/app"
	"github.com/mcplab/calcserver/internal/app/httpapi"
	"github.com/mcplab/calcserver/internal/app/services/history"
	"github.com/mcplab/calcserver/internal/app/storage"
	"github.com/mcplab/calcserver/internal/app/storage/csvfile"
	"github.com/mcplab/calcserver/internal/app/storage/memory"
	"github.com/mcplab/calcserver/internal/config"
	"github.com/mcplab/calcserver/internal/httpserver"
	"github.com/mcplab/calcserver/internal/middleware"
	"github.com/mcplab/calcserver/pkg/logger"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	app        *app.Application
	httpServer *httpserver.Server
}

// NewApplication constructs a new application from the config at path
// (empty means defaults plus environment).
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}).WithField("service", "calcserver")

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure storage: %w", err)
	}

	application, err := app.New(app.Stores{History: store}, log)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}

	if schedule := strings.TrimSpace(cfg.Retention.Schedule); schedule != "" {
		sweeper, err := history.NewSweeper(application.History, schedule, cfg.Retention.MaxRows, log)
		if err != nil {
			return nil, fmt.Errorf("configure retention sweeper: %w", err)
		}
		if err := application.Attach(sweeper); err != nil {
			return nil, fmt.Errorf("attach retention sweeper: %w", err)
		}
	} else {
		log.Info("retention schedule not set; history retention sweeper disabled")
	}

	info := httpapi.ServerInfo{
		Version:       Version,
		StorageDriver: cfg.Storage.Driver,
		StoragePath:   cfg.Storage.Path,
	}
	handler := httpapi.NewHandler(application, info, log)
	handler = applyMiddleware(handler, cfg, log)
	httpSrv := httpserver.New(cfg.Server, log, handler)

	return &Application{
		cfg:        cfg,
		log:        log,
		app:        application,
		httpServer: httpSrv,
	}, nil
}

// Run starts the services and the HTTP server, blocking until the context
// is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.httpServer.Addr())
		if err := a.httpServer.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server and all services.
func (a *Application) Shutdown(ctx context.Context) error {
	timeout := time.Duration(a.cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("http server shutdown")
	}
	return a.app.Stop(shutdownCtx)
}

func buildStore(cfg *config.Config) (storage.HistoryStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "memory":
		return memory.New(), nil
	case "csv":
		return csvfile.New(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func applyMiddleware(handler http.Handler, cfg *config.Config, log *logger.Logger) http.Handler {
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		limiter.StartCleanup(5 * time.Minute)
		handler = limiter.Handler(handler)
	}
	if origins := cfg.CORS.Origins(); len(origins) > 0 {
		handler = middleware.NewCORSMiddleware(origins).Handler(handler)
	}
	return handler
}
