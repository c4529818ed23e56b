// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes browse and resolve over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/mediabrowse/internal/browse"
	"github.com/ManuGH/mediabrowse/internal/health"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediasource"
	"github.com/ManuGH/mediabrowse/internal/playback"
)

// Service is the media source the API serves.
type Service interface {
	Browse(ctx context.Context, identifier string, opts ...mediasource.BrowseOption) (*browse.Node, error)
	Resolve(ctx context.Context, identifier string) (playback.Media, error)
}

// Config configures the HTTP server.
type Config struct {
	ListenAddr     string
	RateLimit      int // requests per minute per client IP, 0 disables
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TracingService string // empty disables tracing
}

// Server is the HTTP front of the media source.
type Server struct {
	cfg     Config
	service Service
	health  *health.Manager
	router  chi.Router
	srv     *http.Server
	logger  zerolog.Logger
}

// New builds the router. A nil manager reports ready without checks.
func New(cfg Config, service Service, checks *health.Manager) *Server {
	if checks == nil {
		checks = health.NewManager("")
	}
	s := &Server{
		cfg:     cfg,
		service: service,
		health:  checks,
		logger:  xglog.WithComponent("api"),
	}
	s.router = s.routes()
	s.srv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	if s.cfg.TracingService != "" {
		r.Use(Tracing(s.cfg.TracingService))
	}
	r.Use(AccessLog)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(RateLimit(s.cfg.RateLimit, time.Minute))
		}
		r.Get("/browse", s.handleBrowse)
		r.Get("/resolve", s.handleResolve)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ln)
}

// Shutdown drains in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("http server shutting down")
	return s.srv.Shutdown(ctx)
}
