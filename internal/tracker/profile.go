package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

// GoalInput is the data accepted when adding a goal.
type GoalInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetValue float64    `json:"target_value"`
	Unit        string     `json:"unit"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// GetUserProfile returns the profile of the single user.
func (s *Service) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

func validateProfile(p models.UserProfile) error {
	switch {
	case !p.Gender.Valid():
		return fmt.Errorf("%w: unknown gender %q", ErrInvalid, p.Gender)
	case !p.FitnessLevel.Valid():
		return fmt.Errorf("%w: unknown fitness level %q", ErrInvalid, p.FitnessLevel)
	case p.Age < 0, p.Weight < 0, p.Height < 0:
		return fmt.Errorf("%w: age, weight and height must not be negative", ErrInvalid)
	}
	return nil
}

// UpdateUserProfile replaces the profile fields and goals. The stored id is kept.
func (s *Service) UpdateUserProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	cur, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p = p.Clone()
	p.ID = cur.ID
	for i := range p.Goals {
		if p.Goals[i].ID == "" {
			p.Goals[i].ID = uuid.NewString()
		}
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return &p, nil
}

// AddGoal appends a new goal with zero progress.
func (s *Service) AddGoal(ctx context.Context, in GoalInput) (*models.Goal, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrInvalid)
	}
	if in.TargetValue <= 0 {
		return nil, fmt.Errorf("%w: goal target must be positive", ErrInvalid)
	}
	g := models.Goal{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		TargetValue: in.TargetValue,
		Unit:        in.Unit,
		Deadline:    in.Deadline,
	}
	err := s.mutateProfile(ctx, func(p *models.UserProfile) error {
		p.Goals = append(p.Goals, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// RemoveGoal drops the goal with the given id. Unknown ids are ignored.
func (s *Service) RemoveGoal(ctx context.Context, id string) error {
	return s.mutateProfile(ctx, func(p *models.UserProfile) error {
		kept := p.Goals[:0]
		for _, g := range p.Goals {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		p.Goals = kept
		return nil
	})
}

// UpdateGoalProgress sets the current value of a goal and marks it achieved
// once the target is reached.
func (s *Service) UpdateGoalProgress(ctx context.Context, id string, current float64) (*models.Goal, error) {
	var updated models.Goal
	err := s.mutateProfile(ctx, func(p *models.UserProfile) error {
		for i := range p.Goals {
			g := &p.Goals[i]
			if g.ID != id {
				continue
			}
			g.CurrentValue = current
			g.Achieved = current >= g.TargetValue
			updated = *g
			return nil
		}
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) mutateProfile(ctx context.Context, fn func(*models.UserProfile) error) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	p, err := s.repo.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := s.repo.SaveProfile(ctx, *p); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
