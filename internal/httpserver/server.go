// Package httpserver wraps the standard library HTTP server with the
// service's lifecycle conventions.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mcplab/calcserver/internal/config"
	"github.com/mcplab/calcserver/pkg/logger"
)

// Server manages the HTTP listener lifecycle.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// New builds a server from configuration.
func New(cfg config.ServerConfig, log *logger.Logger, handler http.Handler) *Server {
	if log == nil {
		log = logger.NewDefault("httpserver")
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		},
		log: log,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. http.ErrServerClosed is returned on clean shutdown.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
