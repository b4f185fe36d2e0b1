package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/meltforce/fittrack/internal/models"
)

// Memory is a process-lifetime repository. All state is lost on restart.
// Values are copied on the way in and out so callers never share backing arrays
// with the store.
type Memory struct {
	mu        sync.RWMutex
	exercises []models.Exercise
	workouts  []models.Workout
	profile   models.UserProfile
}

// NewMemory creates an in-memory repository seeded with the built-in catalogue,
// sample workouts and sample profile.
func NewMemory() *Memory {
	return NewMemoryWith(SeedExercises(), SeedWorkouts(), SeedProfile())
}

// NewMemoryWith creates an in-memory repository holding the given data.
func NewMemoryWith(exercises []models.Exercise, workouts []models.Workout, profile models.UserProfile) *Memory {
	m := &Memory{profile: profile.Clone()}
	for _, e := range exercises {
		m.exercises = append(m.exercises, e.Clone())
	}
	for _, w := range workouts {
		m.workouts = append(m.workouts, w.Clone())
	}
	return m
}

// ListExercises returns the catalogue in insertion order.
func (m *Memory) ListExercises(_ context.Context) ([]models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Exercise, len(m.exercises))
	for i, e := range m.exercises {
		out[i] = e.Clone()
	}
	return out, nil
}

// GetExercise returns the catalogue entry with the given id.
func (m *Memory) GetExercise(_ context.Context, id string) (*models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.exercises {
		if e.ID == id {
			c := e.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
}

// ListWorkouts returns the log in insertion order.
func (m *Memory) ListWorkouts(_ context.Context) ([]models.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Workout, len(m.workouts))
	for i, w := range m.workouts {
		out[i] = w.Clone()
	}
	return out, nil
}

// GetWorkout returns the workout with the given id.
func (m *Memory) GetWorkout(_ context.Context, id string) (*models.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		c := m.workouts[i].Clone()
		return &c, nil
	}
	return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
}

// InsertWorkout appends w. Ids must be unique.
func (m *Memory) InsertWorkout(_ context.Context, w models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(w.ID) >= 0 {
		return fmt.Errorf("workout %s already exists", w.ID)
	}
	m.workouts = append(m.workouts, w.Clone())
	return nil
}

// UpdateWorkout replaces the workout with the same id.
func (m *Memory) UpdateWorkout(_ context.Context, w models.Workout) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(w.ID)
	if i < 0 {
		return false, nil
	}
	m.workouts[i] = w.Clone()
	return true, nil
}

// DeleteWorkout removes the workout with the given id.
func (m *Memory) DeleteWorkout(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.workouts = append(m.workouts[:i], m.workouts[i+1:]...)
	return true, nil
}

// GetProfile returns a copy of the stored profile.
func (m *Memory) GetProfile(_ context.Context) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.profile.Clone()
	return &p, nil
}

// SaveProfile replaces the stored profile.
func (m *Memory) SaveProfile(_ context.Context, p models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile = p.Clone()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() {}

// indexOf must be called with mu held.
func (m *Memory) indexOf(id string) int {
	for i, w := range m.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}
