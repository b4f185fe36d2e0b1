// Package tracker is the data-access facade shared by the HTTP API, the MCP
// server and the importers. Every call waits the configured simulated latency
// before touching the repository.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/fittrack/internal/latency"
	"github.com/meltforce/fittrack/internal/recommend"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrInvalid marks input that failed validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound is returned when a workout, exercise or goal does not exist.
var ErrNotFound = storage.ErrNotFound

// Service implements the tracker operations on top of a storage.Repository.
type Service struct {
	repo    storage.Repository
	latency time.Duration
	engine  *recommend.Engine
	log     *slog.Logger
	now     func() time.Time
	created prometheus.Counter

	// serialises profile read-modify-write cycles
	profileMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for default workout dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCreatedCounter counts every stored workout on c.
func WithCreatedCounter(c prometheus.Counter) Option {
	return func(s *Service) { s.created = c }
}

// New creates a Service. A zero latency disables the simulated delay.
func New(repo storage.Repository, delay time.Duration, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		latency: delay,
		engine:  recommend.NewEngine(delay),
		log:     logger,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) wait(ctx context.Context) error {
	return latency.Wait(ctx, s.latency)
}
