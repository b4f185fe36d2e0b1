package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/timer"
	"github.com/meltforce/fittrack/internal/tracker"
)

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) timer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires due timers outside the clock lock.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(c.now) {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func newTestSessions(t *testing.T, delay time.Duration, clock timer.Clock, opts SessionOptions) (*Sessions, *tracker.Service) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := tracker.New(storage.NewMemory(), delay, log)
	return NewSessions(svc, clock, nil, log, opts), svc
}

// readySession creates a session holding one committed exercise.
func readySession(t *testing.T, m *Sessions) string {
	t.Helper()
	id, sess, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sess.SelectExercise("2")
	sess.AddSet()
	if _, err := sess.AddExercise(); err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	return id
}

// TestSessionFlow drives a timer session over HTTP from creation to a saved workout.
func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var view sessionView
	decodeBody(t, rec, &view)
	base := "/api/v1/sessions/" + view.ID
	if s.Sessions().Len() != 1 {
		t.Fatalf("live sessions = %d, want 1", s.Sessions().Len())
	}

	if rec := do(t, s, http.MethodPost, base+"/exercises", ""); rec.Code != http.StatusConflict {
		t.Errorf("commit empty builder status = %d, want 409", rec.Code)
	}

	steps := []struct {
		method, path, body string
	}{
		{http.MethodPut, base + "/exercise", `{"exercise_id":"2"}`},
		{http.MethodPost, base + "/sets", ""},
		{http.MethodPost, base + "/sets", ""},
		{http.MethodPatch, base + "/sets/0", `{"reps":12,"weight":40}`},
		{http.MethodPost, base + "/sets/0/start", ""},
		{http.MethodPost, base + "/sets/0/complete", ""},
		{http.MethodPost, base + "/exercises", ""},
	}
	for _, st := range steps {
		rec := do(t, s, st.method, st.path, st.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s: status = %d: %s", st.method, st.path, rec.Code, rec.Body)
		}
		decodeBody(t, rec, &view)
	}
	if len(view.Exercises) != 1 || len(view.Exercises[0].Sets) != 2 || view.Exercises[0].Sets[0].Reps != 12 {
		t.Fatalf("committed exercises = %+v", view.Exercises)
	}

	rec = do(t, s, http.MethodPost, base+"/save", `{"name":"Timer Legs"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	var w models.Workout
	decodeBody(t, rec, &w)
	if w.Name != "Timer Legs" || w.Exercises[0].ExerciseID != "2" {
		t.Errorf("saved workout = %+v", w)
	}
	if s.Sessions().Len() != 0 {
		t.Error("session not discarded after save")
	}
	if rec := do(t, s, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Errorf("saved session status = %d, want 404", rec.Code)
	}
}

// TestSessionErrors verifies error mapping for timer state violations.
func TestSessionErrors(t *testing.T) {
	s := newTestServer(t)
	var view sessionView
	decodeBody(t, do(t, s, http.MethodPost, "/api/v1/sessions", ""), &view)
	base := "/api/v1/sessions/" + view.ID

	do(t, s, http.MethodPost, base+"/sets", "")
	tests := []struct {
		name, method, path string
		want               int
	}{
		{"remove last set", http.MethodDelete, base + "/sets/0", http.StatusConflict},
		{"complete inactive set", http.MethodPost, base + "/sets/0/complete", http.StatusConflict},
		{"bad index", http.MethodPost, base + "/sets/7/start", http.StatusBadRequest},
		{"non-numeric index", http.MethodPost, base + "/sets/x/start", http.StatusBadRequest},
		{"save empty", http.MethodPost, base + "/save", http.StatusConflict},
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, tt.method, tt.path, ""); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if rec := do(t, s, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if s.Sessions().Len() != 0 {
		t.Error("session still live after delete")
	}
}

// TestSessionSaveOnce verifies concurrent saves of one session log a single workout.
func TestSessionSaveOnce(t *testing.T) {
	m, svc := newTestSessions(t, 20*time.Millisecond, nil, SessionOptions{})
	ctx := context.Background()
	before, err := svc.GetWorkouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	id := readySession(t, m)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Save(ctx, id, "Race")
		}()
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		switch {
		case err == nil:
			saved++
		case !errors.Is(err, ErrNoSession):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if saved != 1 {
		t.Errorf("successful saves = %d, want 1", saved)
	}
	after, err := svc.GetWorkouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before)+1 {
		t.Errorf("workouts = %d, want %d", len(after), len(before)+1)
	}
	if m.Len() != 0 {
		t.Errorf("live sessions = %d, want 0", m.Len())
	}
}

// TestSessionSaveFailureKeepsSession verifies a failed write leaves the session live.
func TestSessionSaveFailureKeepsSession(t *testing.T) {
	m, _ := newTestSessions(t, 0, nil, SessionOptions{})
	id := readySession(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Save(ctx, id, "Cancelled"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Save error = %v, want context.Canceled", err)
	}
	if _, err := m.Get(id); err != nil {
		t.Fatalf("session lost after failed save: %v", err)
	}
	if _, err := m.Save(context.Background(), id, "Retry"); err != nil {
		t.Errorf("retry save: %v", err)
	}
}

// TestSessionSweep verifies idle sessions expire after the TTL while used ones stay.
func TestSessionSweep(t *testing.T) {
	c := newManualClock()
	m, _ := newTestSessions(t, 0, c, SessionOptions{TTL: time.Minute})
	defer m.CloseAll()

	idle, _, _ := m.Create()
	used, _, _ := m.Create()

	c.Advance(40 * time.Second)
	if m.Len() != 2 {
		t.Fatalf("live sessions = %d, want 2", m.Len())
	}
	if _, err := m.Get(used); err != nil {
		t.Fatal(err)
	}

	c.Advance(30 * time.Second)
	if _, err := m.Get(idle); !errors.Is(err, ErrNoSession) {
		t.Errorf("idle session error = %v, want ErrNoSession", err)
	}
	if m.Len() != 1 {
		t.Fatalf("live sessions = %d, want 1", m.Len())
	}

	c.Advance(90 * time.Second)
	if m.Len() != 0 {
		t.Errorf("live sessions = %d, want 0", m.Len())
	}
}

// TestSessionCloseAllStopsSweeper verifies no sweep stays scheduled after CloseAll.
func TestSessionCloseAllStopsSweeper(t *testing.T) {
	c := newManualClock()
	m, _ := newTestSessions(t, 0, c, SessionOptions{TTL: time.Minute})
	if c.pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", c.pending())
	}
	m.CloseAll()
	if c.pending() != 0 {
		t.Errorf("pending timers = %d after CloseAll, want 0", c.pending())
	}
}

// TestSessionSweepDisabled verifies a zero TTL never schedules sweeps.
func TestSessionSweepDisabled(t *testing.T) {
	c := newManualClock()
	m, _ := newTestSessions(t, 0, c, SessionOptions{})
	m.Create()
	c.Advance(24 * time.Hour)
	if n := m.Sweep(); n != 0 || m.Len() != 1 {
		t.Errorf("Sweep() = %d, live = %d; want 0, 1", n, m.Len())
	}
	if c.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", c.pending())
	}
}

// TestSessionLimit verifies creation is refused with 429 once the cap is reached.
func TestSessionLimit(t *testing.T) {
	s := newTestServer(t)
	s.sessions.opts.Max = 2
	for range 2 {
		if rec := do(t, s, http.MethodPost, "/api/v1/sessions", ""); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/sessions", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("create over limit status = %d, want 429", rec.Code)
	}
}

// TestSaveSessionBodies verifies the save name is optional, including for
// chunked requests with no length.
func TestSaveSessionBodies(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		chunked  bool
		want     int
		wantName string
	}{
		{"empty", "", false, http.StatusCreated, tracker.DefaultTimedWorkoutName},
		{"chunked empty", "", true, http.StatusCreated, tracker.DefaultTimedWorkoutName},
		{"chunked named", `{"name":"Late Lift"}`, true, http.StatusCreated, "Late Lift"},
		{"malformed", `{"name":`, false, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			id := readySession(t, s.Sessions())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/save", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
				req.TransferEncoding = []string{"chunked"}
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
			if tt.want != http.StatusCreated {
				return
			}
			var w models.Workout
			decodeBody(t, rec, &w)
			if w.Name != tt.wantName {
				t.Errorf("name = %q, want %q", w.Name, tt.wantName)
			}
		})
	}
}
