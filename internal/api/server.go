package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/omniapartners/incentive-engine/internal/config"
)

// Server is the HTTP front of the incentive engine.
type Server struct {
	config   config.ServerConfig
	handlers *Handlers
	server   *http.Server
}

// NewServer creates the API server over a wired report service.
func NewServer(cfg config.ServerConfig, svc *Service) *Server {
	return &Server{
		config:   cfg,
		handlers: NewHandlers(svc),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.GetHost(), s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      SetupRoutes(s.handlers),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
