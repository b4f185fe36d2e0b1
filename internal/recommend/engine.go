// Package recommend implements the rule table behind personalised recommendations
// and the workout generator.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/fittrack/internal/latency"
	"github.com/meltforce/fittrack/internal/models"
	"golang.org/x/sync/errgroup"
)

// Rule produces zero or more recommendations of a single type.
type Rule func(Input) []models.Recommendation

// rules in evaluation order. The order decides how confidence ties are broken.
var rules = []struct {
	typ  models.RecommendationType
	rule Rule
}{
	{models.RecWorkout, Workouts},
	{models.RecExercise, Exercises},
	{models.RecGoal, Goals},
	{models.RecIntensity, Intensity},
}

// Engine evaluates the rules, each after a simulated processing delay.
type Engine struct {
	Latency time.Duration
}

// NewEngine creates an Engine that waits d before each rule evaluation.
func NewEngine(d time.Duration) *Engine {
	return &Engine{Latency: d}
}

// Insights runs every rule concurrently, concatenates the results in rule order
// and sorts them by confidence, highest first.
func (e *Engine) Insights(ctx context.Context, in Input) ([]models.Recommendation, error) {
	results := make([][]models.Recommendation, len(rules))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range rules {
		g.Go(func() error {
			if err := latency.Wait(gctx, e.Latency); err != nil {
				return fmt.Errorf("%s rule: %w", r.typ, err)
			}
			results[i] = r.rule(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Recommendation
	for _, recs := range results {
		all = append(all, recs...)
	}
	SortByConfidence(all)
	return all, nil
}

// ByType evaluates the single rule for t.
func (e *Engine) ByType(ctx context.Context, t models.RecommendationType, in Input) ([]models.Recommendation, error) {
	for _, r := range rules {
		if r.typ != t {
			continue
		}
		if err := latency.Wait(ctx, e.Latency); err != nil {
			return nil, err
		}
		recs := r.rule(in)
		SortByConfidence(recs)
		return recs, nil
	}
	return nil, fmt.Errorf("unknown recommendation type %q", t)
}
