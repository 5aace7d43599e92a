// ABOUTME: Repository interface for wellness data storage.
// ABOUTME: Defines the daily record, demographics, and weekly score contracts.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/wellness/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DailySource reads raw daily wearable records.
type DailySource interface {
	// ListDailyRecords returns records for userID with from <= date <= to,
	// oldest first. A zero from or to leaves that side open.
	ListDailyRecords(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyMetricRecord, error)
}

// DemographicsSource reads optional user context.
type DemographicsSource interface {
	// GetDemographics returns ErrNotFound when nothing is stored.
	GetDemographics(ctx context.Context, userID string) (*models.Demographics, error)
}

// WeeklyScoreStore persists one score per user per ISO week.
type WeeklyScoreStore interface {
	// UpsertWeeklyScore inserts or overwrites the row for (UserID, WeekStart).
	UpsertWeeklyScore(ctx context.Context, rec *models.WeeklyScoreRecord) error
	// RecentWeeklyScores returns up to limit records with WeekStart <= through,
	// newest first. A limit <= 0 returns all of them.
	RecentWeeklyScores(ctx context.Context, userID string, through time.Time, limit int) ([]*models.WeeklyScoreRecord, error)
}

// Repository is the full storage contract implemented by each backend.
type Repository interface {
	DailySource
	DemographicsSource
	WeeklyScoreStore

	// SaveDailyRecord upserts a day, merging present readings into any
	// existing record for the same user and date.
	SaveDailyRecord(ctx context.Context, r *models.DailyMetricRecord) error
	// SaveDemographics upserts demographics, merging present fields.
	SaveDemographics(ctx context.Context, d *models.Demographics) error
	// ListUsers returns every user with daily records or demographics, sorted.
	ListUsers(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// farFuture is the open upper bound for "all weekly scores".
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
