// ABOUTME: Data migration between wellness storage backends.
// ABOUTME: Copies daily records, demographics, and weekly scores from source to destination.
package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users        int
	DailyRecords int
	Demographics int
	WeeklyScores int
}

// MigrateData copies all data from src to dst storage. Weekly scores keep
// their IDs and creation times in a destination that has no row for the week.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	data, err := GetAllData(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if err := ImportData(ctx, dst, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source users: %w", err)
	}
	return &MigrateSummary{
		Users:        len(users),
		DailyRecords: len(data.DailyRecords),
		Demographics: len(data.Demographics),
		WeeklyScores: len(data.WeeklyScores),
	}, nil
}

// IsDirNonEmpty reports whether path holds at least one entry.
// A missing directory counts as empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
