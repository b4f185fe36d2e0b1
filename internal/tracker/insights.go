package tracker

import (
	"context"
	"fmt"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recommend"
)

func (s *Service) recommendInput(ctx context.Context) (recommend.Input, error) {
	p, err := s.repo.GetProfile(ctx)
	if err != nil {
		return recommend.Input{}, fmt.Errorf("getting profile: %w", err)
	}
	ws, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return recommend.Input{}, fmt.Errorf("listing workouts: %w", err)
	}
	ex, err := s.repo.ListExercises(ctx)
	if err != nil {
		return recommend.Input{}, fmt.Errorf("listing exercises: %w", err)
	}
	return recommend.Input{Profile: *p, History: ws, Catalogue: ex}, nil
}

// Recommendations evaluates the rule table. An empty t returns every
// recommendation sorted by confidence; otherwise only those of type t.
func (s *Service) Recommendations(ctx context.Context, t models.RecommendationType) ([]models.Recommendation, error) {
	if t != "" && !t.Valid() {
		return nil, fmt.Errorf("%w: unknown recommendation type %q", ErrInvalid, t)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	in, err := s.recommendInput(ctx)
	if err != nil {
		return nil, err
	}

	var recs []models.Recommendation
	if t == "" {
		recs, err = s.engine.Insights(ctx, in)
	} else {
		recs, err = s.engine.ByType(ctx, t, in)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluating recommendations: %w", err)
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	return recs, nil
}

// Generated is the result of GenerateWorkout. Workout is set only when the
// suggestion was saved.
type Generated struct {
	Suggestion models.WorkoutSuggestion `json:"suggestion"`
	Workout    *models.Workout          `json:"workout,omitempty"`
}

// GenerateWorkout builds a workout suggestion and optionally logs it.
func (s *Service) GenerateWorkout(ctx context.Context, req recommend.GenerateRequest, save bool) (*Generated, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	ex, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	sug, err := recommend.Generate(ex, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	out := &Generated{Suggestion: sug}
	if save {
		w, err := s.insert(ctx, recommend.ToWorkout(sug, s.now()))
		if err != nil {
			return nil, err
		}
		out.Workout = w
	}
	return out, nil
}
