package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// GoalProgress pairs a goal with its completion percentage.
type GoalProgress struct {
	models.Goal
	Progress float64 `json:"progress"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalWorkouts  int             `json:"total_workouts"`
	TotalExercises int             `json:"total_exercises"`
	TotalCalories  int             `json:"total_calories"`
	TotalDuration  int             `json:"total_duration"` // minutes
	LatestWorkout  *models.Workout `json:"latest_workout,omitempty"`
	Goals          []GoalProgress  `json:"goals"`
}

// Summary aggregates the log, catalogue and goals.
func (s *Service) Summary(ctx context.Context) (*Stats, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	ws, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	ex, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	p, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	st := &Stats{
		TotalWorkouts:  len(ws),
		TotalExercises: len(ex),
		TotalCalories:  models.TotalCalories(ws),
		TotalDuration:  models.TotalDuration(ws),
		LatestWorkout:  models.Latest(ws),
		Goals:          make([]GoalProgress, 0, len(p.Goals)),
	}
	for _, g := range p.Goals {
		st.Goals = append(st.Goals, GoalProgress{Goal: g, Progress: g.Progress()})
	}
	return st, nil
}

// Range selects the window of the progress chart.
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ChartPoint is one bucket of the progress chart.
type ChartPoint struct {
	Label    string `json:"label"`
	Calories int    `json:"calories"`
	Workouts int    `json:"workouts"`
}

// ProgressReport is the calories chart for a range.
type ProgressReport struct {
	Range  Range        `json:"range"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Points []ChartPoint `json:"points"`
	Total  int          `json:"total_calories"`
}

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// chartFrame returns the window for r around now plus the bucket labels and
// a function mapping an in-window time to its bucket.
func chartFrame(r Range, now time.Time) (start, end time.Time, labels []string, bucket func(time.Time) int, err error) {
	y, m, d := now.Date()
	loc := now.Location()
	switch r {
	case RangeWeek:
		offset := (int(now.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 7)
		labels = weekdayLabels
		bucket = func(t time.Time) int { return (int(t.Weekday()) + 6) % 7 }
	case RangeMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
		days := end.AddDate(0, 0, -1).Day()
		for i := 0; i <= (days-1)/7; i++ {
			labels = append(labels, fmt.Sprintf("Week %d", i+1))
		}
		bucket = func(t time.Time) int { return (t.Day() - 1) / 7 }
	case RangeYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
		for mo := time.January; mo <= time.December; mo++ {
			labels = append(labels, mo.String()[:3])
		}
		bucket = func(t time.Time) int { return int(t.Month()) - 1 }
	default:
		err = fmt.Errorf("%w: unknown range %q", ErrInvalid, r)
	}
	return
}

// Progress buckets calories of the workouts inside the range containing now.
func (s *Service) Progress(ctx context.Context, r Range, now time.Time) (*ProgressReport, error) {
	start, end, labels, bucket, err := chartFrame(r, now)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	ws, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}

	rep := &ProgressReport{Range: r, Start: start, End: end, Points: make([]ChartPoint, len(labels))}
	for i, l := range labels {
		rep.Points[i].Label = l
	}
	for _, w := range ws {
		t := w.Date.In(now.Location())
		if t.Before(start) || !t.Before(end) {
			continue
		}
		p := &rep.Points[bucket(t)]
		p.Calories += w.Calories()
		p.Workouts++
		rep.Total += w.Calories()
	}
	return rep, nil
}
