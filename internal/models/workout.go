package models

import (
	"math"
	"time"
)

// UnknownExerciseName is shown for workout entries whose exercise id is not in the catalogue.
const UnknownExerciseName = "Unknown Exercise"

// CaloriesPerMinute is the flat burn rate used to estimate calories from duration.
const CaloriesPerMinute = 5

// Difficulty grades an exercise.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Rank orders difficulties from 0 (beginner) to 2 (advanced). Unknown values rank -1.
func (d Difficulty) Rank() int {
	switch d {
	case Beginner:
		return 0
	case Intermediate:
		return 1
	case Advanced:
		return 2
	}
	return -1
}

// Exercise is a catalogue entry. Catalogue entries are never mutated after seeding.
type Exercise struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Muscles     []string   `json:"muscles"`
	Equipment   []string   `json:"equipment,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
}

// WorkoutSet is one set of an exercise entry.
type WorkoutSet struct {
	ID       string   `json:"id"`
	Reps     int      `json:"reps"`
	Weight   *float64 `json:"weight,omitempty"`    // kg
	Duration *int     `json:"duration,omitempty"`  // seconds
	Distance *float64 `json:"distance,omitempty"`  // meters
	RestTime *int     `json:"rest_time,omitempty"` // seconds
}

// WorkoutExercise references a catalogue exercise by id. The reference is weak:
// nothing checks that the id exists.
type WorkoutExercise struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exercise_id"`
	Sets       []WorkoutSet `json:"sets"`
}

// Workout is a logged training session.
type Workout struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Date           time.Time         `json:"date"`
	Duration       int               `json:"duration"` // minutes
	Exercises      []WorkoutExercise `json:"exercises"`
	Notes          string            `json:"notes,omitempty"`
	CaloriesBurned *int              `json:"calories_burned,omitempty"`
}

// Calories returns the burned calories, or 0 when unknown.
func (w Workout) Calories() int {
	if w.CaloriesBurned == nil {
		return 0
	}
	return *w.CaloriesBurned
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	c := w
	if w.CaloriesBurned != nil {
		v := *w.CaloriesBurned
		c.CaloriesBurned = &v
	}
	if w.Exercises != nil {
		c.Exercises = make([]WorkoutExercise, len(w.Exercises))
		for i, ex := range w.Exercises {
			c.Exercises[i] = ex.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of e.
func (e WorkoutExercise) Clone() WorkoutExercise {
	c := e
	if e.Sets != nil {
		c.Sets = make([]WorkoutSet, len(e.Sets))
		for i, s := range e.Sets {
			c.Sets[i] = s.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of s.
func (s WorkoutSet) Clone() WorkoutSet {
	c := s
	c.Weight = clonePtr(s.Weight)
	c.Duration = clonePtr(s.Duration)
	c.Distance = clonePtr(s.Distance)
	c.RestTime = clonePtr(s.RestTime)
	return c
}

// Clone returns a deep copy of e.
func (e Exercise) Clone() Exercise {
	c := e
	c.Muscles = append([]string(nil), e.Muscles...)
	c.Equipment = append([]string(nil), e.Equipment...)
	return c
}

// EstimateCalories approximates calories burned for a session of the given length.
func EstimateCalories(durationMin int) int {
	return int(math.Round(float64(durationMin) * CaloriesPerMinute))
}

// TotalCalories sums calories over workouts; workouts without a value count as 0.
func TotalCalories(workouts []Workout) int {
	total := 0
	for _, w := range workouts {
		total += w.Calories()
	}
	return total
}

// TotalDuration sums workout durations in minutes.
func TotalDuration(workouts []Workout) int {
	total := 0
	for _, w := range workouts {
		total += w.Duration
	}
	return total
}

// Latest returns the workout with the most recent date, or nil for an empty log.
func Latest(workouts []Workout) *Workout {
	var latest *Workout
	for i := range workouts {
		if latest == nil || workouts[i].Date.After(latest.Date) {
			latest = &workouts[i]
		}
	}
	if latest == nil {
		return nil
	}
	c := latest.Clone()
	return &c
}

// ExerciseName resolves an exercise id against the catalogue.
func ExerciseName(catalogue []Exercise, id string) string {
	for _, e := range catalogue {
		if e.ID == id {
			return e.Name
		}
	}
	return UnknownExerciseName
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
