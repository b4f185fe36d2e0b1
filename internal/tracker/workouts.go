package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

// DefaultTimedWorkoutName is used when a timer session is saved without a name.
const DefaultTimedWorkoutName = "Timed Workout"

func validateWorkout(w models.Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: workout name is required", ErrInvalid)
	}
	if w.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalid)
	}
	if len(w.Exercises) == 0 {
		return fmt.Errorf("%w: at least one exercise is required", ErrInvalid)
	}
	for i, ex := range w.Exercises {
		if ex.ExerciseID == "" {
			return fmt.Errorf("%w: exercise %d has no exercise_id", ErrInvalid, i+1)
		}
		if len(ex.Sets) == 0 {
			return fmt.Errorf("%w: exercise %d has no sets", ErrInvalid, i+1)
		}
		for _, set := range ex.Sets {
			if set.Reps < 0 {
				return fmt.Errorf("%w: exercise %d has negative reps", ErrInvalid, i+1)
			}
		}
	}
	return nil
}

// fillIDs assigns ids to exercise entries and sets that arrive without one.
func fillIDs(w *models.Workout) {
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		for j := range ex.Sets {
			if ex.Sets[j].ID == "" {
				ex.Sets[j].ID = uuid.NewString()
			}
		}
	}
}

// GetWorkouts returns the whole log in insertion order.
func (s *Service) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	ws, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	return ws, nil
}

// GetWorkoutByID returns one workout or ErrNotFound.
func (s *Service) GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting workout %s: %w", id, err)
	}
	return w, nil
}

// CreateWorkout validates and stores a new workout. Any id in the input is
// replaced by a fresh one.
func (s *Service) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	if err := validateWorkout(w); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.insert(ctx, w)
}

func (s *Service) insert(ctx context.Context, w models.Workout) (*models.Workout, error) {
	w = w.Clone()
	w.ID = uuid.NewString()
	w.Name = strings.TrimSpace(w.Name)
	if w.Date.IsZero() {
		w.Date = s.now()
	}
	if w.CaloriesBurned == nil {
		w.CaloriesBurned = models.Ptr(models.EstimateCalories(w.Duration))
	}
	fillIDs(&w)

	if err := s.repo.InsertWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("inserting workout: %w", err)
	}
	if s.created != nil {
		s.created.Inc()
	}
	s.log.Info("workout created", "id", w.ID, "name", w.Name, "exercises", len(w.Exercises))
	return &w, nil
}

// UpdateWorkout replaces a stored workout. Unknown ids return ErrNotFound.
func (s *Service) UpdateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	if err := validateWorkout(w); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	w = w.Clone()
	w.Name = strings.TrimSpace(w.Name)
	fillIDs(&w)

	ok, err := s.repo.UpdateWorkout(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("updating workout %s: %w", w.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("updating workout %s: %w", w.ID, ErrNotFound)
	}
	return &w, nil
}

// DeleteWorkout removes the workout with the given id. Unknown ids are ignored.
func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	ok, err := s.repo.DeleteWorkout(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	if ok {
		s.log.Info("workout deleted", "id", id)
	}
	return nil
}

// SaveTimedWorkout stores the exercises recorded by a timer session. The
// duration is the elapsed time rounded to whole minutes.
func (s *Service) SaveTimedWorkout(ctx context.Context, name string, elapsed time.Duration, exercises []models.WorkoutExercise) (*models.Workout, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimedWorkoutName
	}
	w := models.Workout{
		Name:      name,
		Date:      s.now(),
		Duration:  int(elapsed.Round(time.Minute) / time.Minute),
		Exercises: exercises,
	}
	return s.CreateWorkout(ctx, w)
}
