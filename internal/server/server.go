package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/groupsched/internal/config"
	"github.com/me/groupsched/internal/parser"
	"github.com/me/groupsched/internal/store"
)

// maxBodyBytes caps scenario uploads.
const maxBodyBytes = 8 << 20

// Server is the groupsched REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	simLogger *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	parser    *parser.Parser
	active    *limiter
	store     store.Store // optional; runs are not persisted when nil
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithStore persists every simulation and enables the /runs endpoints.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		simLogger: logger,
		config:    cfg,
		startTime: time.Now(),
		parser:    parser.New(logger),
		active:    newLimiter(cfg.MaxActive),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Post("/simulations", s.handleSimulate)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRun)
				r.Get("/schedule", s.handleGetRunSchedule)
			})
		})
	})
}
