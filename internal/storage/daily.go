// ABOUTME: Daily metric record operations for SQLite storage.
// ABOUTME: Upserts merge present readings so partial ingests never erase data.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/wellness/internal/models"
)

// SaveDailyRecord upserts a daily record, keeping stored readings that the
// incoming record leaves nil.
func (d *DB) SaveDailyRecord(ctx context.Context, r *models.DailyMetricRecord) error {
	if r.UserID == "" {
		return fmt.Errorf("save daily record: empty user id")
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO daily_metrics (user_id, day, resting_hr, steps, sleep_hours, hrv, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			resting_hr = COALESCE(excluded.resting_hr, daily_metrics.resting_hr),
			steps = COALESCE(excluded.steps, daily_metrics.steps),
			sleep_hours = COALESCE(excluded.sleep_hours, daily_metrics.sleep_hours),
			hrv = COALESCE(excluded.hrv, daily_metrics.hrv),
			updated_at = excluded.updated_at`,
		r.UserID, models.Day(r.Date).Format(models.DateLayout),
		nullFloat(r.RestingHeartRate), nullFloat(r.Steps), nullFloat(r.SleepHours), nullFloat(r.HRV),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save daily record: %w", err)
	}
	return nil
}

// ListDailyRecords returns records for a user within [from, to], oldest first.
func (d *DB) ListDailyRecords(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyMetricRecord, error) {
	query := `SELECT user_id, day, resting_hr, steps, sleep_hours, hrv FROM daily_metrics WHERE user_id = ?`
	args := []any{userID}
	if !from.IsZero() {
		query += ` AND day >= ?`
		args = append(args, models.Day(from).Format(models.DateLayout))
	}
	if !to.IsZero() {
		query += ` AND day <= ?`
		args = append(args, models.Day(to).Format(models.DateLayout))
	}
	query += ` ORDER BY day ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*models.DailyMetricRecord
	for rows.Next() {
		var (
			r                     models.DailyMetricRecord
			day                   string
			rhr, steps, sleep, hv sql.NullFloat64
		)
		if err := rows.Scan(&r.UserID, &day, &rhr, &steps, &sleep, &hv); err != nil {
			return nil, fmt.Errorf("scan daily record: %w", err)
		}
		if r.Date, err = models.ParseDay(day); err != nil {
			return nil, err
		}
		r.RestingHeartRate = floatPtr(rhr)
		r.Steps = floatPtr(steps)
		r.SleepHours = floatPtr(sleep)
		r.HRV = floatPtr(hv)
		records = append(records, &r)
	}
	return records, rows.Err()
}

// ListUsers returns every user with daily records or demographics.
func (d *DB) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT user_id FROM daily_metrics
		UNION
		SELECT user_id FROM demographics`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(users)
	return users, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
