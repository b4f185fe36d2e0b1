package mcp

import (
	"context"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recommend"
	"github.com/meltforce/fittrack/internal/tracker"
)

// DataSource abstracts the data layer for MCP tools. Both *tracker.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetExercises(ctx context.Context, f tracker.ExerciseFilter) ([]models.Exercise, error)
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error)
	GetUserProfile(ctx context.Context) (*models.UserProfile, error)
	Summary(ctx context.Context) (*tracker.Stats, error)
	Progress(ctx context.Context, r tracker.Range, now time.Time) (*tracker.ProgressReport, error)
	Recommendations(ctx context.Context, t models.RecommendationType) ([]models.Recommendation, error)
	GenerateWorkout(ctx context.Context, req recommend.GenerateRequest, save bool) (*tracker.Generated, error)
}

// Compile-time check: *tracker.Service satisfies DataSource.
var _ DataSource = (*tracker.Service)(nil)
