// Package api provides HTTP handlers and the main API server logic for
// CoachCore.
//
// It exposes RESTful endpoints for processing conversation turns, executing
// previously offered actions, and reading back the recent turn window. The
// API integrates with the coach engine and the store modules.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lymhealth/coachcore/internal/coach"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server hosts the decision layer over HTTP.
type Server struct {
	engine *coach.Engine
	addr   string
}

// NewServer creates a server around an engine.
func NewServer(engine *coach.Engine, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{engine: engine, addr: cfg.Addr}
}

// Handler builds the HTTP route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/turn", s.turnHandler)
	mux.HandleFunc("/v1/actions/execute", s.executeHandler)
	mux.HandleFunc("/v1/turns", s.turnsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("CoachCore API listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
