package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/fittrack/internal/models"
)

const exerciseColumns = `id, name, category, description, muscles, equipment, difficulty`

// ListExercises returns the catalogue in seed order.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise returns a single catalogue entry.
func (db *DB) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	e, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanExercise(row pgx.Row) (models.Exercise, error) {
	var e models.Exercise
	var difficulty string
	if err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Description,
		&e.Muscles, &e.Equipment, &difficulty); err != nil {
		return e, fmt.Errorf("scanning exercise: %w", err)
	}
	e.Difficulty = models.Difficulty(difficulty)
	if len(e.Equipment) == 0 {
		e.Equipment = nil
	}
	return e, nil
}
