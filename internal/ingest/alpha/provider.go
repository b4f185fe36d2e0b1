package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
)

// ImportNote is stored as the notes of every imported workout.
const ImportNote = "Imported from Alpha Progression"

// Store is the part of the tracker service the importer writes through.
type Store interface {
	GetExercises(ctx context.Context, f tracker.ExerciseFilter) ([]models.Exercise, error)
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
}

// Provider turns Alpha Progression CSV exports into logged workouts.
type Provider struct {
	store Store
	log   *slog.Logger
	sets  prometheus.Counter
}

// NewProvider creates a new Alpha Progression ingest provider. sets may be nil.
func NewProvider(store Store, log *slog.Logger, sets prometheus.Counter) *Provider {
	return &Provider{store: store, log: log, sets: sets}
}

// normalizeName folds case, punctuation and a plural "s" so that "Push Up",
// "push-ups" and "Push-ups" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "s")
}

func sessionKey(name string, date string) string {
	return name + "|" + date
}

// Ingest parses a CSV export and stores each session as a workout. Sessions
// already logged under the same name and date are skipped. Exercises that do
// not match the catalogue are reported and left out. A malformed export is
// reported as tracker.ErrInvalid; store failures are returned as they are.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %w", tracker.ErrInvalid, err)
	}

	catalogue, err := p.store.GetExercises(ctx, tracker.ExerciseFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}
	byName := make(map[string]string, len(catalogue))
	for _, e := range catalogue {
		byName[normalizeName(e.Name)] = e.ID
	}

	existing, err := p.store.GetWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[sessionKey(w.Name, w.Date.Format("2006-01-02"))] = true
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	unmatched := make(map[string]bool)

	for _, s := range sessions {
		key := sessionKey(s.Name, s.Date.Format("2006-01-02"))
		if seen[key] {
			result.SessionsSkipped++
			continue
		}

		w := models.Workout{Name: s.Name, Date: s.Date, Notes: ImportNote}
		if mins, err := s.DurationMinutes(); err != nil {
			p.log.Warn("alpha session duration", "session", s.Name, "error", err)
		} else {
			w.Duration = mins
		}

		sets := 0
		for _, ex := range s.Exercises {
			working := ex.WorkingSets()
			result.SetsReceived += len(working)

			id, ok := byName[normalizeName(ex.Name)]
			if !ok {
				if !unmatched[ex.Name] {
					unmatched[ex.Name] = true
					result.Unmatched = append(result.Unmatched, ex.Name)
				}
				continue
			}
			if len(working) == 0 {
				continue
			}
			we := models.WorkoutExercise{ExerciseID: id}
			for _, set := range working {
				ws := models.WorkoutSet{Reps: set.Reps}
				if set.WeightKg > 0 {
					ws.Weight = models.Ptr(set.WeightKg)
				}
				we.Sets = append(we.Sets, ws)
			}
			w.Exercises = append(w.Exercises, we)
			sets += len(we.Sets)
		}

		if len(w.Exercises) == 0 {
			result.SessionsSkipped++
			continue
		}
		if _, err := p.store.CreateWorkout(ctx, w); err != nil {
			return nil, fmt.Errorf("storing session %s: %w", key, err)
		}
		seen[key] = true
		result.WorkoutsInserted++
		result.SetsInserted += sets
	}

	if p.sets != nil {
		p.sets.Add(float64(result.SetsInserted))
	}
	p.log.Info("alpha import",
		"sessions", result.SessionsReceived,
		"inserted", result.WorkoutsInserted,
		"skipped", result.SessionsSkipped,
		"unmatched", len(result.Unmatched),
	)
	return result, nil
}
