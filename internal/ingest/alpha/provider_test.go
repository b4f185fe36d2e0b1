package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/tracker"
)

const importCSV = `
"Push · Day 1";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
"2. Push Up · Bodyweight · 15 reps"
#;KG;REPS;RIR
1;+0;15;1
"3. Cable Flyes · Cable · 12 reps"
#;KG;REPS;RIR
1;20;12;1

"Legs · Day 2";"2026-02-19 4:54 h";"58 min"
"1. Squat · Barbell · 5 reps"
#;KG;REPS;RIR
1;120;5;1
2;120;5;1
3;120;5;0

"Arms";"2026-02-20 6:00 h";"30 min"
"1. Cable Flyes · Cable · 12 reps"
#;KG;REPS;RIR
1;20;12;1
`

func newTestProvider() (*Provider, *tracker.Service) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := tracker.New(storage.NewMemory(), 0, log)
	return NewProvider(svc, log, nil), svc
}

// TestIngestCreatesWorkouts verifies sessions become workouts with working sets only
// and that exercise names are matched against the catalogue loosely.
func TestIngestCreatesWorkouts(t *testing.T) {
	p, svc := newTestProvider()
	ctx := context.Background()

	res, err := p.Ingest(ctx, strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.SessionsReceived != 3 || res.WorkoutsInserted != 2 || res.SessionsSkipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.SetsReceived != 8 || res.SetsInserted != 6 {
		t.Errorf("sets received/inserted = %d/%d, want 8/6", res.SetsReceived, res.SetsInserted)
	}
	if diff := cmp.Diff([]string{"Cable Flyes"}, res.Unmatched); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}

	all, _ := svc.GetWorkouts(ctx)
	if len(all) != 4 {
		t.Fatalf("log has %d workouts, want 4", len(all))
	}
	push := all[2]
	if push.Name != "Push · Day 1" || push.Duration != 72 || push.Notes != ImportNote {
		t.Errorf("push workout = %q %d %q", push.Name, push.Duration, push.Notes)
	}
	if len(push.Exercises) != 2 || push.Exercises[0].ExerciseID != "6" || push.Exercises[1].ExerciseID != "1" {
		t.Fatalf("push exercises = %+v", push.Exercises)
	}
	bench := push.Exercises[0].Sets
	if len(bench) != 2 || *bench[0].Weight != 102.5 || bench[0].Reps != 6 {
		t.Errorf("bench sets = %+v", bench)
	}
	if push.Exercises[1].Sets[0].Weight != nil {
		t.Error("bodyweight set should carry no weight")
	}
	if legs := all[3]; legs.Duration != 58 || legs.Exercises[0].ExerciseID != "2" {
		t.Errorf("legs workout = %d min, exercise %s", legs.Duration, legs.Exercises[0].ExerciseID)
	}
}

// TestIngestSkipsDuplicates verifies a second import of the same export adds nothing.
func TestIngestSkipsDuplicates(t *testing.T) {
	p, svc := newTestProvider()
	ctx := context.Background()

	if _, err := p.Ingest(ctx, strings.NewReader(importCSV)); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	res, err := p.Ingest(ctx, strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if res.WorkoutsInserted != 0 || res.SessionsSkipped != 3 {
		t.Errorf("re-import result = %+v", res)
	}
	if all, _ := svc.GetWorkouts(ctx); len(all) != 4 {
		t.Errorf("log has %d workouts after re-import, want 4", len(all))
	}
}

// TestNormalizeName verifies loose exercise name matching.
func TestNormalizeName(t *testing.T) {
	tests := []struct{ a, b string }{
		{"Push-ups", "Push Up"},
		{"Squats", "squat"},
		{"Pull-ups", "PULL UPS"},
		{"Bench Press", "bench press"},
	}
	for _, tt := range tests {
		if normalizeName(tt.a) != normalizeName(tt.b) {
			t.Errorf("%q and %q should match", tt.a, tt.b)
		}
	}
	if normalizeName("Deadlifts") == normalizeName("Squats") {
		t.Error("different exercises should not match")
	}
}

// TestIngestBadCSV verifies parse failures are reported as invalid input.
func TestIngestBadCSV(t *testing.T) {
	p, _ := newTestProvider()
	_, err := p.Ingest(context.Background(), strings.NewReader(`"1. Squats · Barbell · 5 reps"`))
	if !errors.Is(err, tracker.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

type brokenStore struct{ err error }

func (b brokenStore) GetExercises(context.Context, tracker.ExerciseFilter) ([]models.Exercise, error) {
	return nil, b.err
}

func (b brokenStore) GetWorkouts(context.Context) ([]models.Workout, error) {
	return nil, b.err
}

func (b brokenStore) CreateWorkout(context.Context, models.Workout) (*models.Workout, error) {
	return nil, b.err
}

// TestIngestStoreFailure verifies store errors are passed through and not reported as invalid input.
func TestIngestStoreFailure(t *testing.T) {
	down := errors.New("connection refused")
	p := NewProvider(brokenStore{err: down}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	_, err := p.Ingest(context.Background(), strings.NewReader(importCSV))
	if !errors.Is(err, down) {
		t.Fatalf("error = %v, want %v", err, down)
	}
	if errors.Is(err, tracker.ErrInvalid) {
		t.Error("store failure reported as ErrInvalid")
	}
}
