package storage

import (
	"context"
	"errors"

	"github.com/meltforce/fittrack/internal/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// Repository is the persistence contract shared by the in-memory and Postgres backends.
type Repository interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id string) (*models.Exercise, error)

	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	InsertWorkout(ctx context.Context, w models.Workout) error
	// UpdateWorkout replaces the workout with the same id. Returns false if none matched.
	UpdateWorkout(ctx context.Context, w models.Workout) (bool, error)
	// DeleteWorkout removes the workout with the given id. Returns false if none matched.
	DeleteWorkout(ctx context.Context, id string) (bool, error)

	GetProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p models.UserProfile) error

	Close()
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*DB)(nil)
)
