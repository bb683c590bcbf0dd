// Package server serves the landing page, the demo widget and a small JSON
// API over per-browser search sessions.
package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/newsprobe/internal/config"
	"github.com/hyperjump/newsprobe/internal/history"
	"github.com/hyperjump/newsprobe/internal/render"
	"github.com/hyperjump/newsprobe/internal/session"
	"go.uber.org/zap"
)

// SessionCookie carries the caller's session id.
const SessionCookie = "newsprobe_session"

// Server is the HTTP server for the landing page and demo.
type Server struct {
	sessions *session.Registry
	history  history.Store
	config   *config.ServerConfig
	models   []string
	logger   *zap.Logger
	pages    *template.Template
	widgets  *render.HTML
	about    template.HTML
	server   *http.Server
}

// NewServer creates a server with the given dependencies. store may be nil,
// in which case the history endpoint reports it is not enabled.
func NewServer(
	sessions *session.Registry,
	store history.Store,
	cfg *config.ServerConfig,
	models []string,
	logger *zap.Logger,
) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	widgets, err := render.NewHTML()
	if err != nil {
		return nil, err
	}
	about, err := renderMarkdown(aboutMarkdown)
	if err != nil {
		return nil, err
	}
	return &Server{
		sessions: sessions,
		history:  store,
		config:   cfg,
		models:   models,
		logger:   logger,
		pages:    pages,
		widgets:  widgets,
		about:    about,
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Route("/demo", func(r chi.Router) {
		r.Post("/search", s.handleDemoSearch)
		r.Post("/limit", s.handleDemoLimit)
		r.Get("/widget", s.handleWidget)
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/state", s.handleState)
		r.Get("/history", s.handleHistory)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
