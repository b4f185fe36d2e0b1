package models

// RecommendationType classifies a recommendation.
type RecommendationType string

const (
	RecWorkout   RecommendationType = "workout"
	RecExercise  RecommendationType = "exercise"
	RecGoal      RecommendationType = "goal"
	RecIntensity RecommendationType = "intensity"
)

// Valid reports whether t is a known recommendation type.
func (t RecommendationType) Valid() bool {
	switch t {
	case RecWorkout, RecExercise, RecGoal, RecIntensity:
		return true
	}
	return false
}

// Intensity of a suggested workout.
type Intensity string

const (
	Light    Intensity = "light"
	Moderate Intensity = "moderate"
	Intense  Intensity = "intense"
)

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	return i == Light || i == Moderate || i == Intense
}

// Priority of an exercise suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one entry produced by the recommendation rules.
// Data holds one of WorkoutSuggestion, ExerciseSuggestion, GoalSuggestion
// or IntensityAdjustment, matching Type.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Confidence  int                `json:"confidence"` // 0-100
	Data        any                `json:"data"`
}

// WorkoutSuggestion describes a suggested session.
type WorkoutSuggestion struct {
	Name      string    `json:"name"`
	Exercises []string  `json:"exercises"` // exercise ids
	Duration  int       `json:"duration"`  // minutes
	Intensity Intensity `json:"intensity"`
}

// ExerciseSuggestion points at a catalogue exercise worth adding.
type ExerciseSuggestion struct {
	ExerciseID string   `json:"exercise_id"`
	Reason     string   `json:"reason"`
	Priority   Priority `json:"priority"`
}

// GoalSuggestion proposes a new goal.
type GoalSuggestion struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetValue float64 `json:"target_value"`
	Unit        string  `json:"unit"`
	Timeframe   string  `json:"timeframe"`
}

// IntensityAdjustment proposes changes to training load.
type IntensityAdjustment struct {
	SuggestedWeightMultiplier float64 `json:"suggested_weight_multiplier"`
	SuggestedReps             int     `json:"suggested_reps"`
	RestTimeAdjustment        int     `json:"rest_time_adjustment"` // seconds
	Reason                    string  `json:"reason"`
}

// WorkoutType selects the flavour of a generated workout.
type WorkoutType string

const (
	TypeStrength    WorkoutType = "strength"
	TypeCardio      WorkoutType = "cardio"
	TypeFlexibility WorkoutType = "flexibility"
	TypeBalanced    WorkoutType = "balanced"
)

// Valid reports whether t is a known workout type.
func (t WorkoutType) Valid() bool {
	switch t {
	case TypeStrength, TypeCardio, TypeFlexibility, TypeBalanced:
		return true
	}
	return false
}
