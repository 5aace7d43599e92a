// ABOUTME: Weekly score operations for SQLite storage.
// ABOUTME: One row per (user, ISO week); re-scoring a week overwrites it.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// UpsertWeeklyScore inserts or updates the score for a user's ISO week.
// An existing row keeps its ID and CreatedAt.
func (d *DB) UpsertWeeklyScore(ctx context.Context, rec *models.WeeklyScoreRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("upsert weekly score: empty user id")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO weekly_scores (id, user_id, week_start, score_7d, score_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			score_7d = excluded.score_7d,
			score_level = excluded.score_level,
			updated_at = excluded.updated_at`,
		rec.ID.String(), rec.UserID, models.ISOWeekStart(rec.WeekStart).Format(models.DateLayout),
		rec.Score7d, rec.ScoreLevel,
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert weekly score: %w", err)
	}
	return nil
}

// RecentWeeklyScores returns scores with week_start <= through, newest first.
func (d *DB) RecentWeeklyScores(ctx context.Context, userID string, through time.Time, limit int) ([]*models.WeeklyScoreRecord, error) {
	query := `
		SELECT id, user_id, week_start, score_7d, score_level, created_at, updated_at
		FROM weekly_scores
		WHERE user_id = ? AND week_start <= ?
		ORDER BY week_start DESC`
	args := []any{userID, models.Day(through).Format(models.DateLayout)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weekly scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.WeeklyScoreRecord
	for rows.Next() {
		var (
			rec                  models.WeeklyScoreRecord
			id, week             string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &rec.UserID, &week, &rec.Score7d, &rec.ScoreLevel, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan weekly score: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse weekly score id: %w", err)
		}
		if rec.WeekStart, err = models.ParseDay(week); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse weekly score created_at: %w", err)
		}
		if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("parse weekly score updated_at: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
