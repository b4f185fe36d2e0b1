package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

// ErrInvalidRequest is returned for generator requests with unknown or out-of-range fields.
var ErrInvalidRequest = errors.New("invalid generator request")

const (
	minGenerated   = 2
	maxGenerated   = 6
	minutesPerSlot = 15
	generatedSets  = 3
	generatedReps  = 10
	fallbackPicks  = 3
)

// GenerateRequest describes the workout the user asks for.
type GenerateRequest struct {
	Type      models.WorkoutType `json:"type"`
	Duration  int                `json:"duration"` // minutes
	Intensity models.Intensity   `json:"intensity"`
}

// Validate checks the request fields.
func (r GenerateRequest) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown workout type %q", ErrInvalidRequest, r.Type)
	}
	if !r.Intensity.Valid() {
		return fmt.Errorf("%w: unknown intensity %q", ErrInvalidRequest, r.Intensity)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	return nil
}

// categoriesFor lists the catalogue categories a workout type draws from.
// A nil result means every category.
func categoriesFor(t models.WorkoutType) []string {
	switch t {
	case models.TypeStrength:
		return []string{"Chest", "Back", "Legs"}
	case models.TypeCardio:
		return []string{"Legs", "Core"}
	case models.TypeFlexibility:
		return []string{"Core"}
	}
	return nil
}

// maxDifficulty caps exercise difficulty by requested intensity.
func maxDifficulty(i models.Intensity) models.Difficulty {
	switch i {
	case models.Light:
		return models.Beginner
	case models.Moderate:
		return models.Intermediate
	}
	return models.Advanced
}

// Generate builds a workout suggestion from the catalogue.
func Generate(catalogue []models.Exercise, req GenerateRequest) (models.WorkoutSuggestion, error) {
	if err := req.Validate(); err != nil {
		return models.WorkoutSuggestion{}, err
	}

	want := req.Duration / minutesPerSlot
	want = max(minGenerated, min(maxGenerated, want))

	cats := categoriesFor(req.Type)
	capRank := maxDifficulty(req.Intensity).Rank()

	var eligible []models.Exercise
	for _, e := range catalogue {
		if e.Difficulty.Rank() > capRank {
			continue
		}
		if cats != nil && !contains(cats, e.Category) {
			continue
		}
		// cardio keeps to bodyweight movements
		if req.Type == models.TypeCardio && len(e.Equipment) > 0 {
			continue
		}
		eligible = append(eligible, e)
	}

	var picks []string
	if req.Type == models.TypeBalanced {
		picks = onePerCategory(eligible, want)
	} else {
		for _, e := range eligible {
			if len(picks) == want {
				break
			}
			picks = append(picks, e.ID)
		}
	}

	if len(picks) == 0 {
		for _, e := range catalogue {
			if len(picks) == fallbackPicks {
				break
			}
			picks = append(picks, e.ID)
		}
	}

	return models.WorkoutSuggestion{
		Name:      title(string(req.Type)) + " Power Session",
		Exercises: picks,
		Duration:  req.Duration,
		Intensity: req.Intensity,
	}, nil
}

// onePerCategory picks the first exercise of each category, then fills up in
// catalogue order until want is reached.
func onePerCategory(exercises []models.Exercise, want int) []string {
	seenCat := make(map[string]bool)
	picked := make(map[string]bool)
	var picks []string
	for _, e := range exercises {
		if len(picks) == want {
			return picks
		}
		if seenCat[e.Category] {
			continue
		}
		seenCat[e.Category] = true
		picked[e.ID] = true
		picks = append(picks, e.ID)
	}
	for _, e := range exercises {
		if len(picks) == want {
			break
		}
		if !picked[e.ID] {
			picks = append(picks, e.ID)
		}
	}
	return picks
}

// ToWorkout turns a suggestion into a workout with default sets, ready to log.
func ToWorkout(s models.WorkoutSuggestion, date time.Time) models.Workout {
	w := models.Workout{
		Name:     s.Name,
		Date:     date,
		Duration: s.Duration,
		Notes:    fmt.Sprintf("Generated %s session", s.Intensity),
	}
	for _, id := range s.Exercises {
		ex := models.WorkoutExercise{ID: uuid.NewString(), ExerciseID: id}
		for range generatedSets {
			ex.Sets = append(ex.Sets, models.WorkoutSet{ID: uuid.NewString(), Reps: generatedReps})
		}
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
