package recommend

import (
	"fmt"
	"sort"

	"github.com/meltforce/fittrack/internal/models"
)

// recentWindow is how many of the latest workouts count as "recent" when
// looking for exercises the user has not done lately.
const recentWindow = 5

// Input is everything the rules look at.
type Input struct {
	Profile   models.UserProfile
	History   []models.Workout
	Catalogue []models.Exercise
}

// intensityFor maps a fitness level to the intensity of a suggested session.
func intensityFor(level models.FitnessLevel) models.Intensity {
	switch level {
	case models.LevelBeginner:
		return models.Light
	case models.LevelAdvanced:
		return models.Intense
	}
	return models.Moderate
}

// Workouts suggests a whole session based on how much and how hard the user trains.
func Workouts(in Input) []models.Recommendation {
	total := len(in.History)
	avgCalories := 0.0
	if total > 0 {
		avgCalories = float64(models.TotalCalories(in.History)) / float64(total)
	}

	switch {
	case total == 0:
		return []models.Recommendation{{
			Type:        models.RecWorkout,
			Title:       "Beginner Full Body Workout",
			Description: "A gentle introduction to strength training",
			Confidence:  95,
			Data: models.WorkoutSuggestion{
				Name:      "Beginner Full Body",
				Exercises: []string{"1", "2", "5"},
				Duration:  30,
				Intensity: models.Light,
			},
		}}
	case avgCalories < 300:
		return []models.Recommendation{{
			Type:        models.RecWorkout,
			Title:       "High Intensity Workout",
			Description: "Boost your calorie burn with this intense session",
			Confidence:  85,
			Data: models.WorkoutSuggestion{
				Name:      "HIIT Blast",
				Exercises: []string{"3", "4", "6"},
				Duration:  45,
				Intensity: models.Intense,
			},
		}}
	default:
		return []models.Recommendation{{
			Type:        models.RecWorkout,
			Title:       "Balanced Strength Workout",
			Description: "Maintain your fitness with this balanced routine",
			Confidence:  90,
			Data: models.WorkoutSuggestion{
				Name:      "Strength Builder",
				Exercises: []string{"2", "3", "6"},
				Duration:  45,
				Intensity: intensityFor(in.Profile.FitnessLevel),
			},
		}}
	}
}

// Exercises suggests catalogue exercises missing from the most recent workouts.
func Exercises(in Input) []models.Recommendation {
	recent := make(map[string]bool)
	for _, w := range mostRecent(in.History, recentWindow) {
		for _, ex := range w.Exercises {
			recent[ex.ExerciseID] = true
		}
	}

	var unused []models.Exercise
	for _, e := range in.Catalogue {
		if !recent[e.ID] {
			unused = append(unused, e)
		}
	}

	var recs []models.Recommendation
	if len(unused) > 0 {
		e := unused[0]
		recs = append(recs, models.Recommendation{
			Type:        models.RecExercise,
			Title:       "Try " + e.Name,
			Description: fmt.Sprintf("Add variety to your routine with this %s exercise", e.Category),
			Confidence:  80,
			Data: models.ExerciseSuggestion{
				ExerciseID: e.ID,
				Reason:     fmt.Sprintf("You haven't done %s recently", e.Name),
				Priority:   models.PriorityMedium,
			},
		})
	}

	if in.Profile.FitnessLevel == models.LevelBeginner {
		for _, e := range unused {
			if e.Difficulty != models.Beginner {
				continue
			}
			recs = append(recs, models.Recommendation{
				Type:        models.RecExercise,
				Title:       "Master " + e.Name,
				Description: "Perfect for building foundational strength",
				Confidence:  75,
				Data: models.ExerciseSuggestion{
					ExerciseID: e.ID,
					Reason:     "Great for building foundational strength",
					Priority:   models.PriorityHigh,
				},
			})
			break
		}
	}
	return recs
}

// Goals proposes the next goal from workout volume and total calories burned.
func Goals(in Input) []models.Recommendation {
	total := len(in.History)
	calories := models.TotalCalories(in.History)

	switch {
	case total < 10:
		return []models.Recommendation{{
			Type:        models.RecGoal,
			Title:       "Build a Habit",
			Description: "Consistency is key to fitness success",
			Confidence:  90,
			Data: models.GoalSuggestion{
				Title:       "Workout Consistency",
				Description: "Complete 10 workouts in 30 days",
				TargetValue: 10,
				Unit:        "workouts",
				Timeframe:   "30 days",
			},
		}}
	case calories < 5000:
		return []models.Recommendation{{
			Type:        models.RecGoal,
			Title:       "Increase Intensity",
			Description: "Boost your calorie burn for better results",
			Confidence:  85,
			Data: models.GoalSuggestion{
				Title:       "Calorie Burn Challenge",
				Description: "Burn 5000 calories through exercise",
				TargetValue: 5000,
				Unit:        "calories",
				Timeframe:   "60 days",
			},
		}}
	default:
		return []models.Recommendation{{
			Type:        models.RecGoal,
			Title:       "Advanced Performance",
			Description: "Take your fitness to the next level",
			Confidence:  80,
			Data: models.GoalSuggestion{
				Title:       "Strength Builder",
				Description: "Increase your bench press by 20%",
				TargetValue: 120,
				Unit:        "kg",
				Timeframe:   "90 days",
			},
		}}
	}
}

// Intensity compares the calories of the last two workouts and suggests a load change.
func Intensity(in Input) []models.Recommendation {
	if len(in.History) < 2 {
		return nil
	}
	ordered := byDate(in.History)
	last := float64(ordered[len(ordered)-1].Calories())
	prev := float64(ordered[len(ordered)-2].Calories())

	switch {
	case last > prev*1.1:
		return []models.Recommendation{{
			Type:        models.RecIntensity,
			Title:       "Increase Intensity",
			Description: "You're ready for a challenge!",
			Confidence:  85,
			Data: models.IntensityAdjustment{
				SuggestedWeightMultiplier: 1.1,
				SuggestedReps:             2,
				RestTimeAdjustment:        -10,
				Reason:                    "Your performance has improved significantly",
			},
		}}
	case last < prev*0.9:
		return []models.Recommendation{{
			Type:        models.RecIntensity,
			Title:       "Recovery Focus",
			Description: "Consider reducing intensity for better recovery",
			Confidence:  80,
			Data: models.IntensityAdjustment{
				SuggestedWeightMultiplier: 0.9,
				SuggestedReps:             -1,
				RestTimeAdjustment:        20,
				Reason:                    "Your performance suggests a need for recovery",
			},
		}}
	}
	return nil
}

// byDate returns a copy of workouts sorted oldest first. Equal dates keep log order.
func byDate(workouts []models.Workout) []models.Workout {
	sorted := append([]models.Workout(nil), workouts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func mostRecent(workouts []models.Workout, n int) []models.Workout {
	sorted := byDate(workouts)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// SortByConfidence orders recommendations by confidence, highest first.
// Ties keep their input order.
func SortByConfidence(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
}
