package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/ingest/alpha"
	"github.com/meltforce/fittrack/internal/metrics"
	"github.com/meltforce/fittrack/internal/tracker"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *tracker.Service
	alpha    *alpha.Provider
	sessions *Sessions
	metrics  *metrics.Instrumentation
	log      *slog.Logger
	apiKey   string
	router   chi.Router
	whois    WhoIser
}

// Options carries the optional parts of a Server.
type Options struct {
	// Metrics enables request instrumentation and the scrape endpoint.
	Metrics     *metrics.Instrumentation
	MetricsPath string
	// MCP is mounted at /mcp when set.
	MCP http.Handler
	// SessionTTL and MaxSessions bound the live timer sessions.
	SessionTTL  time.Duration
	MaxSessions int
}

// New creates a new Server with all routes configured.
func New(svc *tracker.Service, alphaProvider *alpha.Provider, apiKey string, log *slog.Logger, opts Options) *Server {
	s := &Server{
		svc:     svc,
		alpha:   alphaProvider,
		metrics: opts.Metrics,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.sessions = NewSessions(svc, nil, opts.Metrics, log, SessionOptions{
		TTL: opts.SessionTTL,
		Max: opts.MaxSessions,
	})
	s.routes(opts)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the live timer sessions.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

func (s *Server) routes(opts Options) {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleListExercises)
			r.Get("/categories", s.handleExerciseCategories)
			r.Get("/{id}", s.handleGetExercise)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.handleListWorkouts)
			r.Post("/", s.handleCreateWorkout)
			r.Get("/{id}", s.handleGetWorkout)
			r.Put("/{id}", s.handleUpdateWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleUpdateProfile)
			r.Post("/goals", s.handleAddGoal)
			r.Delete("/goals/{id}", s.handleRemoveGoal)
			r.Put("/goals/{id}/progress", s.handleGoalProgress)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/progress", s.handleProgress)
		r.Get("/recommendations", s.handleRecommendations)
		r.Post("/generator", s.handleGenerate)

		r.Route("/sessions", s.sessionRoutes)

		// Import endpoints (API key required)
		r.Route("/import", func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/alpha", s.handleAlphaImport)
		})
	})

	if s.metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.router.Handle(path, s.metrics.Handler())
	}
	if opts.MCP != nil {
		s.router.Handle("/mcp", opts.MCP)
	}
}
