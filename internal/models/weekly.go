// ABOUTME: Weekly score record persisted once per user per ISO week.
// ABOUTME: Upserts are keyed on user ID plus week start.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyScoreRecord is the persisted 7-day score for one ISO week.
type WeeklyScoreRecord struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	UserID     string    `json:"user_id" yaml:"user_id"`
	WeekStart  time.Time `json:"week_start" yaml:"week_start"`
	Score7d    int       `json:"score_7d" yaml:"score_7d"`
	ScoreLevel string    `json:"score_level" yaml:"score_level"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewWeeklyScoreRecord creates a record with a generated UUID for the ISO
// week containing day.
func NewWeeklyScoreRecord(userID string, day time.Time, score int, level string) *WeeklyScoreRecord {
	now := time.Now().UTC()
	return &WeeklyScoreRecord{
		ID:         uuid.New(),
		UserID:     userID,
		WeekStart:  ISOWeekStart(day),
		Score7d:    score,
		ScoreLevel: level,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
