package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/meltforce/fittrack/internal/models"
)

// ExerciseFilter narrows the catalogue. Empty fields and "all" match everything.
type ExerciseFilter struct {
	Search     string
	Category   string
	Difficulty string
}

func (f ExerciseFilter) match(e models.Exercise) bool {
	if f.Category != "" && f.Category != "all" && e.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != "all" && string(e.Difficulty) != f.Difficulty {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// GetExercises returns catalogue entries matching f, in catalogue order.
func (s *Service) GetExercises(ctx context.Context, f ExerciseFilter) ([]models.Exercise, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	out := make([]models.Exercise, 0, len(all))
	for _, e := range all {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetExercise returns a single catalogue entry.
func (s *Service) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	e, err := s.repo.GetExercise(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting exercise %s: %w", id, err)
	}
	return e, nil
}

// ExerciseCategories lists distinct categories in catalogue order.
func (s *Service) ExerciseCategories(ctx context.Context) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	seen := make(map[string]bool)
	var cats []string
	for _, e := range all {
		if !seen[e.Category] {
			seen[e.Category] = true
			cats = append(cats, e.Category)
		}
	}
	return cats, nil
}
