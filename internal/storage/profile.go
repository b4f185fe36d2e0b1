package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/fittrack/internal/models"
)

// GetProfile loads the configured profile and its goals.
func (db *DB) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	var gender, level string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, age, weight_kg, height_cm, gender, fitness_level
		 FROM profiles WHERE id = $1`, db.profileID,
	).Scan(&p.ID, &p.Name, &p.Age, &p.Weight, &p.Height, &gender, &level)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", db.profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	p.Gender = models.Gender(gender)
	p.FitnessLevel = models.FitnessLevel(level)

	rows, err := db.Pool.Query(ctx,
		`SELECT id, title, description, target_value, current_value, unit, deadline, achieved
		 FROM goals WHERE profile_id = $1 ORDER BY position ASC`, db.profileID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	p.Goals = []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.TargetValue, &g.CurrentValue,
			&g.Unit, &g.Deadline, &g.Achieved); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		p.Goals = append(p.Goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile replaces the profile fields and the whole goal list in one transaction.
func (db *DB) SaveProfile(ctx context.Context, p models.UserProfile) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO profiles (id, name, age, weight_kg, height_cm, gender, fitness_level)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)
			 ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, age = EXCLUDED.age, weight_kg = EXCLUDED.weight_kg,
				height_cm = EXCLUDED.height_cm, gender = EXCLUDED.gender,
				fitness_level = EXCLUDED.fitness_level`,
			db.profileID, p.Name, p.Age, p.Weight, p.Height, string(p.Gender), string(p.FitnessLevel))
		if err != nil {
			return fmt.Errorf("upserting profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM goals WHERE profile_id = $1`, db.profileID); err != nil {
			return fmt.Errorf("clearing goals: %w", err)
		}

		for i, g := range p.Goals {
			_, err := tx.Exec(ctx,
				`INSERT INTO goals (id, profile_id, position, title, description, target_value,
				 current_value, unit, deadline, achieved)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
				g.ID, db.profileID, i, g.Title, g.Description, g.TargetValue,
				g.CurrentValue, g.Unit, g.Deadline, g.Achieved)
			if err != nil {
				return fmt.Errorf("inserting goal %s: %w", g.ID, err)
			}
		}
		return nil
	})
}
