package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meltforce/fittrack/internal/models"
)

// TestMemorySeed verifies the default store carries the catalogue, sample log and profile.
func TestMemorySeed(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	exercises, err := m.ListExercises(ctx)
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if len(exercises) != 6 {
		t.Errorf("exercises = %d, want 6", len(exercises))
	}

	workouts, _ := m.ListWorkouts(ctx)
	if len(workouts) != 2 {
		t.Errorf("workouts = %d, want 2", len(workouts))
	}

	p, _ := m.GetProfile(ctx)
	if p.ID != "user1" || len(p.Goals) != 2 {
		t.Errorf("profile = %s with %d goals, want user1 with 2", p.ID, len(p.Goals))
	}
}

// TestMemoryDeleteRemovesExactlyOne verifies delete removes the matching entry only and
// that an unknown id is a no-op.
func TestMemoryDeleteRemovesExactlyOne(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ok, err := m.DeleteWorkout(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("DeleteWorkout(1) = %v, %v", ok, err)
	}
	workouts, _ := m.ListWorkouts(ctx)
	if len(workouts) != 1 || workouts[0].ID != "2" {
		t.Fatalf("after delete: %+v", workouts)
	}

	ok, err = m.DeleteWorkout(ctx, "does-not-exist")
	if err != nil || ok {
		t.Errorf("DeleteWorkout(unknown) = %v, %v, want false, nil", ok, err)
	}
	workouts, _ = m.ListWorkouts(ctx)
	if len(workouts) != 1 {
		t.Errorf("unknown delete changed the log: %d workouts", len(workouts))
	}
}

// TestMemoryGetWorkoutNotFound verifies ErrNotFound is returned for missing ids.
func TestMemoryGetWorkoutNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.GetWorkout(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	_, err = m.GetExercise(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("exercise err = %v, want ErrNotFound", err)
	}
}

// TestMemoryInsertAndUpdate verifies insertion order, duplicate rejection and in-place update.
func TestMemoryInsertAndUpdate(t *testing.T) {
	m := NewMemoryWith(nil, nil, models.UserProfile{})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := m.InsertWorkout(ctx, models.Workout{ID: id, Name: id}); err != nil {
			t.Fatalf("InsertWorkout(%s): %v", id, err)
		}
	}
	if err := m.InsertWorkout(ctx, models.Workout{ID: "b"}); err == nil {
		t.Error("expected error inserting duplicate id")
	}

	ok, err := m.UpdateWorkout(ctx, models.Workout{ID: "b", Name: "renamed"})
	if err != nil || !ok {
		t.Fatalf("UpdateWorkout = %v, %v", ok, err)
	}
	ok, _ = m.UpdateWorkout(ctx, models.Workout{ID: "zzz"})
	if ok {
		t.Error("UpdateWorkout(unknown) reported a match")
	}

	workouts, _ := m.ListWorkouts(ctx)
	got := []string{workouts[0].ID, workouts[1].Name, workouts[2].ID}
	want := []string{"a", "renamed", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("workouts[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestMemoryReturnsCopies verifies callers cannot mutate stored state through results.
func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	workouts, _ := m.ListWorkouts(ctx)
	workouts[0].Name = "mutated"
	workouts[0].Exercises[0].Sets[0].Reps = 999

	p, _ := m.GetProfile(ctx)
	p.Goals[0].Title = "mutated"

	fresh, _ := m.GetWorkout(ctx, "1")
	if fresh.Name != "Chest Day" || fresh.Exercises[0].Sets[0].Reps != 10 {
		t.Errorf("stored workout was mutated: %+v", fresh)
	}
	freshProfile, _ := m.GetProfile(ctx)
	if freshProfile.Goals[0].Title != "Lose weight" {
		t.Errorf("stored goal was mutated: %q", freshProfile.Goals[0].Title)
	}
}

// TestMemoryConcurrentAccess exercises overlapping writers and readers; run with -race.
func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemoryWith(nil, nil, models.UserProfile{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.InsertWorkout(ctx, models.Workout{ID: string(rune('A' + i))})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = m.ListWorkouts(ctx)
		}()
	}
	wg.Wait()

	workouts, _ := m.ListWorkouts(ctx)
	if len(workouts) != 50 {
		t.Errorf("workouts = %d, want 50", len(workouts))
	}
}
