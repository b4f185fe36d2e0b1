package storage

import (
	"strconv"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// SeedExercises returns the built-in exercise catalogue.
func SeedExercises() []models.Exercise {
	return []models.Exercise{
		{
			ID: "1", Name: "Push-ups", Category: "Chest",
			Description: "A basic upper body exercise",
			Muscles:     []string{"Chest", "Triceps", "Shoulders"},
			Difficulty:  models.Beginner,
		},
		{
			ID: "2", Name: "Squats", Category: "Legs",
			Description: "A compound lower body exercise",
			Muscles:     []string{"Quadriceps", "Glutes", "Hamstrings"},
			Difficulty:  models.Beginner,
		},
		{
			ID: "3", Name: "Deadlifts", Category: "Back",
			Description: "A compound exercise for the entire posterior chain",
			Muscles:     []string{"Back", "Glutes", "Hamstrings"},
			Equipment:   []string{"Barbell"},
			Difficulty:  models.Intermediate,
		},
		{
			ID: "4", Name: "Pull-ups", Category: "Back",
			Description: "An upper body pulling exercise",
			Muscles:     []string{"Back", "Biceps"},
			Equipment:   []string{"Pull-up bar"},
			Difficulty:  models.Intermediate,
		},
		{
			ID: "5", Name: "Plank", Category: "Core",
			Description: "An isometric core strength exercise",
			Muscles:     []string{"Core", "Shoulders", "Glutes"},
			Difficulty:  models.Beginner,
		},
		{
			ID: "6", Name: "Bench Press", Category: "Chest",
			Description: "An upper body pressing exercise",
			Muscles:     []string{"Chest", "Triceps", "Shoulders"},
			Equipment:   []string{"Barbell", "Bench"},
			Difficulty:  models.Intermediate,
		},
	}
}

func seedSets(firstID int, weight float64, reps ...int) []models.WorkoutSet {
	sets := make([]models.WorkoutSet, len(reps))
	for i, r := range reps {
		sets[i] = models.WorkoutSet{
			ID:     "set" + strconv.Itoa(firstID+i),
			Reps:   r,
			Weight: models.Ptr(weight),
		}
	}
	return sets
}

// SeedWorkouts returns the sample workout log.
func SeedWorkouts() []models.Workout {
	return []models.Workout{
		{
			ID:       "1",
			Name:     "Chest Day",
			Date:     time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
			Duration: 60,
			Exercises: []models.WorkoutExercise{
				{ID: "we1", ExerciseID: "1", Sets: seedSets(1, 0, 10, 12, 8)},
				{ID: "we2", ExerciseID: "6", Sets: seedSets(4, 60, 8, 8, 6)},
			},
			CaloriesBurned: models.Ptr(320),
		},
		{
			ID:       "2",
			Name:     "Leg Day",
			Date:     time.Date(2023, time.June, 17, 0, 0, 0, 0, time.UTC),
			Duration: 75,
			Exercises: []models.WorkoutExercise{
				{ID: "we3", ExerciseID: "2", Sets: seedSets(7, 40, 12, 10, 8)},
				{ID: "we4", ExerciseID: "3", Sets: seedSets(10, 80, 5, 5, 3)},
			},
			CaloriesBurned: models.Ptr(450),
		},
	}
}

// SeedProfile returns the sample user profile.
func SeedProfile() models.UserProfile {
	return models.UserProfile{
		ID:           "user1",
		Name:         "Alex Johnson",
		Age:          28,
		Weight:       75,
		Height:       180,
		Gender:       models.Male,
		FitnessLevel: models.LevelIntermediate,
		Goals: []models.Goal{
			{
				ID:           "goal1",
				Title:        "Lose weight",
				Description:  "Lose 10kg in 3 months",
				TargetValue:  10,
				CurrentValue: 3,
				Unit:         "kg",
				Deadline:     models.Ptr(time.Date(2023, time.September, 30, 0, 0, 0, 0, time.UTC)),
			},
			{
				ID:           "goal2",
				Title:        "Increase bench press",
				Description:  "Bench press 100kg",
				TargetValue:  100,
				CurrentValue: 60,
				Unit:         "kg",
				Deadline:     models.Ptr(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)),
			},
		},
	}
}
