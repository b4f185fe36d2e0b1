package recommend

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

// TestGenerate verifies exercise selection per workout type, intensity and duration.
func TestGenerate(t *testing.T) {
	catalogue := storage.SeedExercises()
	tests := []struct {
		name     string
		req      GenerateRequest
		wantName string
		wantIDs  []string
	}{
		{"strength moderate", GenerateRequest{models.TypeStrength, 45, models.Moderate}, "Strength Power Session", []string{"1", "2", "3"}},
		{"strength light caps difficulty", GenerateRequest{models.TypeStrength, 30, models.Light}, "Strength Power Session", []string{"1", "2"}},
		{"cardio is bodyweight only", GenerateRequest{models.TypeCardio, 60, models.Intense}, "Cardio Power Session", []string{"2", "5"}},
		{"flexibility", GenerateRequest{models.TypeFlexibility, 20, models.Light}, "Flexibility Power Session", []string{"5"}},
		{"balanced fills after one per category", GenerateRequest{models.TypeBalanced, 90, models.Intense}, "Balanced Power Session", []string{"1", "2", "3", "5", "4", "6"}},
		{"balanced short", GenerateRequest{models.TypeBalanced, 30, models.Light}, "Balanced Power Session", []string{"1", "2"}},
		{"count capped at six", GenerateRequest{models.TypeBalanced, 600, models.Intense}, "Balanced Power Session", []string{"1", "2", "3", "5", "4", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(catalogue, tt.req)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Duration != tt.req.Duration || got.Intensity != tt.req.Intensity {
				t.Errorf("duration/intensity = %d/%s", got.Duration, got.Intensity)
			}
			if diff := cmp.Diff(tt.wantIDs, got.Exercises); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestGenerateFallback verifies the first three catalogue ids are used when nothing matches.
func TestGenerateFallback(t *testing.T) {
	catalogue := []models.Exercise{
		{ID: "a", Category: "Arms", Difficulty: models.Advanced},
		{ID: "b", Category: "Arms", Difficulty: models.Advanced},
		{ID: "c", Category: "Arms", Difficulty: models.Advanced},
		{ID: "d", Category: "Arms", Difficulty: models.Advanced},
	}
	got, err := Generate(catalogue, GenerateRequest{models.TypeStrength, 45, models.Light})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got.Exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
}

// TestGenerateInvalid verifies request validation.
func TestGenerateInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{"unknown type", GenerateRequest{"yoga", 30, models.Light}},
		{"unknown intensity", GenerateRequest{models.TypeCardio, 30, "extreme"}},
		{"zero duration", GenerateRequest{models.TypeCardio, 0, models.Light}},
		{"negative duration", GenerateRequest{models.TypeCardio, -5, models.Light}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(storage.SeedExercises(), tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

// TestToWorkout verifies generated workouts carry three sets of ten reps per exercise.
func TestToWorkout(t *testing.T) {
	s := models.WorkoutSuggestion{Name: "Cardio Power Session", Exercises: []string{"2", "5"}, Duration: 30, Intensity: models.Light}
	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	w := ToWorkout(s, date)

	if w.Name != s.Name || w.Duration != 30 || !w.Date.Equal(date) {
		t.Errorf("workout header = %q %d %v", w.Name, w.Duration, w.Date)
	}
	if len(w.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(w.Exercises))
	}
	seen := make(map[string]bool)
	for i, ex := range w.Exercises {
		if ex.ExerciseID != s.Exercises[i] {
			t.Errorf("exercise %d id = %s, want %s", i, ex.ExerciseID, s.Exercises[i])
		}
		if len(ex.Sets) != 3 {
			t.Errorf("exercise %d has %d sets, want 3", i, len(ex.Sets))
		}
		for _, set := range ex.Sets {
			if set.Reps != 10 {
				t.Errorf("set reps = %d, want 10", set.Reps)
			}
			if set.ID == "" || seen[set.ID] {
				t.Errorf("set id %q empty or duplicated", set.ID)
			}
			seen[set.ID] = true
		}
	}
}
