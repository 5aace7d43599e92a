// ABOUTME: SQLite schema migrations tracked with PRAGMA user_version.
// ABOUTME: Defines tables for daily metrics, demographics, and weekly scores.
package storage

import (
	"errors"
	"fmt"
)

// ErrSchemaTooNew means the database was written by a newer wellness build.
var ErrSchemaTooNew = errors.New("database schema is newer than this binary")

// migrations[i] upgrades a database from user_version i to i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS daily_metrics (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		resting_hr REAL,
		steps REAL,
		sleep_hours REAL,
		hrv REAL,
		updated_at TEXT,
		PRIMARY KEY (user_id, day)
	);

	CREATE TABLE IF NOT EXISTS demographics (
		user_id TEXT PRIMARY KEY,
		age REAL,
		bmi REAL,
		height_cm REAL,
		weight_kg REAL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS weekly_scores (
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		score_7d INTEGER NOT NULL CHECK (score_7d BETWEEN 0 AND 100),
		score_level TEXT NOT NULL CHECK (score_level IN ('provisional', 'standard', 'calibrated')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, week_start)
	);

	CREATE INDEX IF NOT EXISTS idx_weekly_scores_user_week ON weekly_scores(user_id, week_start DESC);
	`,
}

// schemaVersion is the user_version a fully migrated database reports.
var schemaVersion = len(migrations)

// SchemaVersion reports the database's PRAGMA user_version.
func (d *DB) SchemaVersion() (int, error) {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// initSchema applies every migration the database has not seen yet.
func (d *DB) initSchema() error {
	current, err := d.SchemaVersion()
	if err != nil {
		return err
	}
	if current > schemaVersion {
		return fmt.Errorf("%w: version %d, supported %d", ErrSchemaTooNew, current, schemaVersion)
	}

	for v := current; v < schemaVersion; v++ {
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
	}
	return nil
}
