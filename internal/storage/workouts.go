package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/fittrack/internal/models"
)

const workoutColumns = `id, name, date, duration_min, exercises, notes, calories_burned`

// ListWorkouts returns all workouts in insertion order.
func (db *DB) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	result := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a single workout by id.
func (db *DB) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// InsertWorkout appends a workout.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) error {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return fmt.Errorf("encoding workout exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, name, date, duration_min, exercises, notes, calories_burned)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		w.ID, w.Name, w.Date, w.Duration, exercises, w.Notes, w.CaloriesBurned)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout replaces the stored workout with the same id.
func (db *DB) UpdateWorkout(ctx context.Context, w models.Workout) (bool, error) {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return false, fmt.Errorf("encoding workout exercises: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts
		 SET name = $2, date = $3, duration_min = $4, exercises = $5, notes = $6, calories_burned = $7
		 WHERE id = $1`,
		w.ID, w.Name, w.Date, w.Duration, exercises, w.Notes, w.CaloriesBurned)
	if err != nil {
		return false, fmt.Errorf("updating workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteWorkout removes a workout by id.
func (db *DB) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanWorkout(row pgx.Row) (models.Workout, error) {
	var w models.Workout
	var exercises []byte
	if err := row.Scan(&w.ID, &w.Name, &w.Date, &w.Duration, &exercises,
		&w.Notes, &w.CaloriesBurned); err != nil {
		return w, fmt.Errorf("scanning workout: %w", err)
	}
	if err := json.Unmarshal(exercises, &w.Exercises); err != nil {
		return w, fmt.Errorf("decoding workout %s exercises: %w", w.ID, err)
	}
	return w, nil
}
