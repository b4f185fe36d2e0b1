// Package timer implements the live workout timer: a stopwatch, a rest
// countdown and a builder that collects sets into workout exercises.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

var (
	ErrBadIndex     = errors.New("set index out of range")
	ErrLastSet      = errors.New("cannot remove the last set")
	ErrSetNotActive = errors.New("set is not active")
	ErrIncomplete   = errors.New("select an exercise and add at least one set")
	ErrEmpty        = errors.New("no exercises recorded")
)

// DefaultReps is the rep count of a freshly added set.
const DefaultReps = 10

// SetPatch updates fields of a set under construction. Nil fields are left
// unchanged; a zero weight or rest time clears the field.
type SetPatch struct {
	Reps     *int     `json:"reps,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	RestTime *int     `json:"rest_time,omitempty"`
}

// Session is one timer run. It is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	clock Clock

	running   bool
	startedAt time.Time
	elapsed   time.Duration // accumulated while paused

	resting  bool
	restEnds time.Time
	restStop Stopper
	restGen  int

	exerciseID string
	sets       []models.WorkoutSet
	activeSet  int // -1 when no set is active
	exercises  []models.WorkoutExercise
}

// NewSession creates an idle session reading time from clock.
func NewSession(clock Clock) *Session {
	if clock == nil {
		clock = RealClock()
	}
	return &Session{clock: clock, activeSet: -1}
}

// Start runs the stopwatch. Starting a running session does nothing.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

func (s *Session) start() {
	if s.running {
		return
	}
	s.running = true
	s.startedAt = s.clock.Now()
}

// Pause stops the stopwatch, keeping the elapsed time.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pause()
}

func (s *Session) pause() {
	if !s.running {
		return
	}
	s.elapsed += s.clock.Now().Sub(s.startedAt)
	s.running = false
}

// Reset stops the stopwatch and clears elapsed time, rest and recorded data.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.elapsed = 0
	s.stopRest()
	s.exercises = nil
	s.clearBuilder()
}

func (s *Session) clearBuilder() {
	s.exerciseID = ""
	s.sets = nil
	s.activeSet = -1
}

// SelectExercise sets the catalogue exercise the builder records sets for.
func (s *Session) SelectExercise(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exerciseID = id
}

// AddSet appends a set with the default rep count and returns its index.
func (s *Session) AddSet() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, models.WorkoutSet{ID: uuid.NewString(), Reps: DefaultReps})
	return len(s.sets) - 1
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.sets) {
		return fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return nil
}

// UpdateSet applies p to the set at index i.
func (s *Session) UpdateSet(i int, p SetPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	set := &s.sets[i]
	if p.Reps != nil {
		set.Reps = *p.Reps
	}
	if p.Weight != nil {
		set.Weight = nil
		if *p.Weight != 0 {
			set.Weight = models.Ptr(*p.Weight)
		}
	}
	if p.RestTime != nil {
		set.RestTime = nil
		if *p.RestTime != 0 {
			set.RestTime = models.Ptr(*p.RestTime)
		}
	}
	return nil
}

// RemoveSet deletes the set at index i. The last remaining set cannot be removed.
func (s *Session) RemoveSet(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if len(s.sets) == 1 {
		return ErrLastSet
	}
	s.sets = append(s.sets[:i], s.sets[i+1:]...)
	switch {
	case s.activeSet == i:
		s.activeSet = -1
	case s.activeSet > i:
		s.activeSet--
	}
	return nil
}

// StartSet marks set i active and runs the stopwatch.
func (s *Session) StartSet(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.activeSet = i
	s.start()
	return nil
}

// CompleteSet finishes the active set i, pauses the stopwatch and starts the
// rest countdown when the set has a rest time.
func (s *Session) CompleteSet(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.activeSet != i {
		return ErrSetNotActive
	}
	s.pause()
	s.activeSet = -1
	if rt := s.sets[i].RestTime; rt != nil && *rt > 0 {
		s.startRest(time.Duration(*rt) * time.Second)
	}
	return nil
}

func (s *Session) startRest(d time.Duration) {
	s.stopRest()
	s.resting = true
	s.restEnds = s.clock.Now().Add(d)
	gen := s.restGen
	s.restStop = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.restGen == gen {
			s.resting = false
			s.restStop = nil
		}
	})
}

// stopRest cancels any countdown. Bumping restGen makes an already fired
// callback a no-op.
func (s *Session) stopRest() {
	s.restGen++
	if s.restStop != nil {
		s.restStop.Stop()
		s.restStop = nil
	}
	s.resting = false
}

// SkipRest ends the rest countdown early.
func (s *Session) SkipRest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRest()
}

// AddExercise commits the builder as a workout exercise and clears it.
func (s *Session) AddExercise() (models.WorkoutExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exerciseID == "" || len(s.sets) == 0 {
		return models.WorkoutExercise{}, ErrIncomplete
	}
	ex := models.WorkoutExercise{
		ID:         uuid.NewString(),
		ExerciseID: s.exerciseID,
		Sets:       s.sets,
	}
	s.exercises = append(s.exercises, ex)
	s.clearBuilder()
	return ex.Clone(), nil
}

// Exercises returns a copy of the committed exercises.
func (s *Session) Exercises() []models.WorkoutExercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneExercises(s.exercises)
}

// Save returns the committed exercises and the elapsed time.
func (s *Session) Save() ([]models.WorkoutExercise, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.exercises) == 0 {
		return nil, 0, ErrEmpty
	}
	return cloneExercises(s.exercises), s.elapsedLocked(), nil
}

func (s *Session) elapsedLocked() time.Duration {
	d := s.elapsed
	if s.running {
		d += s.clock.Now().Sub(s.startedAt)
	}
	return d
}

// Elapsed returns the stopwatch reading.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

// Close cancels a pending rest countdown.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRest()
}

func cloneExercises(in []models.WorkoutExercise) []models.WorkoutExercise {
	out := make([]models.WorkoutExercise, len(in))
	for i, ex := range in {
		out[i] = ex.Clone()
	}
	return out
}
