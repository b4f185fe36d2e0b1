package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/metrics"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/timer"
	"github.com/meltforce/fittrack/internal/tracker"
)

// ErrNoSession is returned for unknown timer session ids.
var ErrNoSession = errors.New("timer session not found")

// ErrSessionLimit is returned when the live session cap is reached.
var ErrSessionLimit = errors.New("too many timer sessions")

// SessionOptions bounds the registry. Zero values disable the bound.
type SessionOptions struct {
	// TTL discards sessions left untouched for longer than this.
	TTL time.Duration
	// Max caps the number of live sessions.
	Max int
}

type liveSession struct {
	sess    *timer.Session
	touched time.Time
}

// Sessions keeps the live workout timer sessions keyed by id.
type Sessions struct {
	mu      sync.Mutex
	live    map[string]*liveSession
	sweeper timer.Stopper
	closed  bool

	opts  SessionOptions
	svc   *tracker.Service
	clock timer.Clock
	m     *metrics.Instrumentation
	log   *slog.Logger
}

// NewSessions creates an empty session registry. A nil clock uses real time;
// m may be nil. With a TTL set, idle sessions are swept every half TTL until
// CloseAll.
func NewSessions(svc *tracker.Service, clock timer.Clock, m *metrics.Instrumentation, log *slog.Logger, opts SessionOptions) *Sessions {
	if clock == nil {
		clock = timer.RealClock()
	}
	s := &Sessions{
		live:  make(map[string]*liveSession),
		opts:  opts,
		svc:   svc,
		clock: clock,
		m:     m,
		log:   log,
	}
	if opts.TTL > 0 {
		s.mu.Lock()
		s.schedule()
		s.mu.Unlock()
	}
	return s
}

// schedule arms the next sweep. Callers hold m.mu.
func (m *Sessions) schedule() {
	m.sweeper = m.clock.AfterFunc(max(m.opts.TTL/2, time.Second), m.sweep)
}

func (m *Sessions) gauge() {
	if m.m != nil {
		m.m.GaugeActiveSessions.Set(float64(len(m.live)))
	}
}

// Create starts tracking a new idle session.
func (m *Sessions) Create() (string, *timer.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opts.Max > 0 && len(m.live) >= m.opts.Max {
		return "", nil, fmt.Errorf("%w: limit is %d", ErrSessionLimit, m.opts.Max)
	}
	id := uuid.NewString()
	sess := timer.NewSession(m.clock)
	m.live[id] = &liveSession{sess: sess, touched: m.clock.Now()}
	m.gauge()
	return id, sess, nil
}

// Get returns the session with the given id and marks it as used.
func (m *Sessions) Get(id string) (*timer.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.live[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	ls.touched = m.clock.Now()
	return ls.sess, nil
}

// Delete discards a session. It reports whether the session existed.
func (m *Sessions) Delete(id string) bool {
	m.mu.Lock()
	ls, ok := m.live[id]
	delete(m.live, id)
	m.gauge()
	m.mu.Unlock()

	if ok {
		ls.sess.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Save logs the session as a workout and discards it. The session is taken
// out of the registry before the workout is written, so a concurrent save of
// the same id fails with ErrNoSession. If the write fails the session is put
// back.
func (m *Sessions) Save(ctx context.Context, id, name string) (*models.Workout, error) {
	m.mu.Lock()
	ls, ok := m.live[id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	exercises, elapsed, err := ls.sess.Save()
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	delete(m.live, id)
	m.gauge()
	m.mu.Unlock()

	w, err := m.svc.SaveTimedWorkout(ctx, name, elapsed, exercises)
	if err != nil {
		m.mu.Lock()
		if !m.closed {
			ls.touched = m.clock.Now()
			m.live[id] = ls
			m.gauge()
		}
		m.mu.Unlock()
		return nil, err
	}
	ls.sess.Close()
	m.log.Info("timer session saved", "session", id, "workout", w.ID, "elapsed", elapsed.String())
	return w, nil
}

// Sweep discards every session untouched for at least the TTL and returns
// how many were dropped.
func (m *Sessions) Sweep() int {
	if m.opts.TTL <= 0 {
		return 0
	}
	m.mu.Lock()
	now := m.clock.Now()
	var idle []*liveSession
	for id, ls := range m.live {
		if now.Sub(ls.touched) >= m.opts.TTL {
			idle = append(idle, ls)
			delete(m.live, id)
			m.log.Info("timer session expired", "session", id, "idle", now.Sub(ls.touched).String())
		}
	}
	if len(idle) > 0 {
		m.gauge()
	}
	m.mu.Unlock()

	for _, ls := range idle {
		ls.sess.Close()
	}
	return len(idle)
}

func (m *Sessions) sweep() {
	m.Sweep()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.schedule()
	}
}

// CloseAll stops the sweeper and every pending rest timer and forgets all
// sessions.
func (m *Sessions) CloseAll() {
	m.mu.Lock()
	m.closed = true
	if m.sweeper != nil {
		m.sweeper.Stop()
		m.sweeper = nil
	}
	live := m.live
	m.live = make(map[string]*liveSession)
	m.gauge()
	m.mu.Unlock()

	for _, ls := range live {
		ls.sess.Close()
	}
}

// --- HTTP ---

type sessionView struct {
	ID string `json:"id"`
	timer.Snapshot
}

func (s *Server) sessionRoutes(r chi.Router) {
	r.Post("/", s.handleCreateSession)
	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/", s.withSession(nil))
		r.Delete("/", s.handleDeleteSession)
		r.Post("/start", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			sess.Start()
			return nil
		}))
		r.Post("/pause", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			sess.Pause()
			return nil
		}))
		r.Post("/reset", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			sess.Reset()
			return nil
		}))
		r.Post("/skip-rest", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			sess.SkipRest()
			return nil
		}))
		r.Put("/exercise", s.withSession(selectExercise))
		r.Post("/sets", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			sess.AddSet()
			return nil
		}))
		r.Patch("/sets/{index}", s.withSession(updateSet))
		r.Delete("/sets/{index}", s.withSession(indexed((*timer.Session).RemoveSet)))
		r.Post("/sets/{index}/start", s.withSession(indexed((*timer.Session).StartSet)))
		r.Post("/sets/{index}/complete", s.withSession(indexed((*timer.Session).CompleteSet)))
		r.Post("/exercises", s.withSession(func(sess *timer.Session, _ *http.Request) error {
			_, err := sess.AddExercise()
			return err
		}))
		r.Post("/save", s.handleSaveSession)
	})
}

// withSession resolves the session from the URL, applies fn and answers with
// the resulting snapshot.
func (s *Server) withSession(fn func(*timer.Session, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")
		sess, err := s.sessions.Get(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if fn != nil {
			if err := fn(sess, r); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, sessionView{ID: id, Snapshot: sess.Snapshot()})
	}
}

func setIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", timer.ErrBadIndex, chi.URLParam(r, "index"))
	}
	return i, nil
}

func indexed(op func(*timer.Session, int) error) func(*timer.Session, *http.Request) error {
	return func(sess *timer.Session, r *http.Request) error {
		i, err := setIndex(r)
		if err != nil {
			return err
		}
		return op(sess, i)
	}
}

type selectExerciseRequest struct {
	ExerciseID string `json:"exercise_id"`
}

func selectExercise(sess *timer.Session, r *http.Request) error {
	var in selectExerciseRequest
	if err := jsonBody(r, &in); err != nil {
		return err
	}
	sess.SelectExercise(in.ExerciseID)
	return nil
}

func updateSet(sess *timer.Session, r *http.Request) error {
	i, err := setIndex(r)
	if err != nil {
		return err
	}
	var p timer.SetPatch
	if err := jsonBody(r, &p); err != nil {
		return err
	}
	return sess.UpdateSet(i, p)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.sessions.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{ID: id, Snapshot: sess.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

type saveSessionRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var in saveSessionRequest
	if err := jsonBody(r, &in); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, err)
		return
	}
	workout, err := s.sessions.Save(r.Context(), chi.URLParam(r, "sid"), in.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}
