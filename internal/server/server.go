package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/rota/internal/allocator"
	"github.com/me/rota/internal/config"
	"github.com/me/rota/internal/metrics"
	"github.com/me/rota/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultMaxAttempts caps Complete when the config leaves it unbounded, so
// an uncoverable roster cannot hold a request open forever.
const defaultMaxAttempts = 1000

// Server is the rota REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.Config
	startTime time.Time
	store     store.Store
	metrics   *metrics.Metrics    // optional
	gatherer  prometheus.Gatherer // optional; serves /metrics when set

	// mu serialises rounds. The allocator keeps exclusion history across
	// rounds and is rebuilt whenever the roster is replaced.
	mu    sync.Mutex
	alloc *allocator.Allocator
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithMetrics registers allocation metrics with reg and serves them on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = metrics.New(reg)
		s.gatherer = reg
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.Config, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
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

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		// Roster
		r.Get("/roster", s.handleGetRoster)
		r.Put("/roster", s.handleReplaceRoster)
		r.Get("/workers", s.handleListWorkers)
		r.Get("/jobs", s.handleListJobs)

		// Rounds
		r.Route("/rounds", func(r chi.Router) {
			r.Get("/", s.handleListRounds)
			r.Post("/", s.handleCreateRound)
			r.Get("/{id}", s.handleGetRound)
		})
	})
}
