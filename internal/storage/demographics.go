// ABOUTME: Demographics operations for SQLite storage.
// ABOUTME: Stores optional age, BMI, height and weight per user.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/wellness/internal/models"
)

// SaveDemographics upserts demographics, keeping stored fields that the
// incoming value leaves nil.
func (d *DB) SaveDemographics(ctx context.Context, demo *models.Demographics) error {
	if demo.UserID == "" {
		return fmt.Errorf("save demographics: empty user id")
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO demographics (user_id, age, bmi, height_cm, weight_kg, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			age = COALESCE(excluded.age, demographics.age),
			bmi = COALESCE(excluded.bmi, demographics.bmi),
			height_cm = COALESCE(excluded.height_cm, demographics.height_cm),
			weight_kg = COALESCE(excluded.weight_kg, demographics.weight_kg),
			updated_at = excluded.updated_at`,
		demo.UserID, nullFloat(demo.Age), nullFloat(demo.BMI), nullFloat(demo.HeightCm), nullFloat(demo.WeightKg),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save demographics: %w", err)
	}
	return nil
}

// GetDemographics retrieves demographics for a user.
func (d *DB) GetDemographics(ctx context.Context, userID string) (*models.Demographics, error) {
	var (
		demo                   = models.Demographics{UserID: userID}
		age, bmi, height, mass sql.NullFloat64
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT age, bmi, height_cm, weight_kg FROM demographics WHERE user_id = ?`, userID,
	).Scan(&age, &bmi, &height, &mass)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get demographics: %w", err)
	}
	demo.Age = floatPtr(age)
	demo.BMI = floatPtr(bmi)
	demo.HeightCm = floatPtr(height)
	demo.WeightKg = floatPtr(mass)
	return &demo, nil
}
