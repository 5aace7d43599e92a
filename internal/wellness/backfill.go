// ABOUTME: Batch backfill of historical weekly scores across all users.
// ABOUTME: Users run in parallel; each user's weeks run oldest first.
package wellness

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/harperreed/wellness/internal/models"
	"golang.org/x/sync/errgroup"
)

// BackfillOptions controls a backfill run.
type BackfillOptions struct {
	// Weeks is how many completed ISO weeks to score per user.
	Weeks int
	// Concurrency bounds how many users are processed at once.
	Concurrency int
	// UserIDs restricts the run. Empty means every known user.
	UserIDs []string
}

// BackfillReport summarizes a backfill run.
type BackfillReport struct {
	Users   int            `json:"users"`
	Weeks   int            `json:"weeks"`
	Scored  int            `json:"scored"`
	NoScore int            `json:"noScore"`
	Latest  map[string]int `json:"latest"`
}

// Backfill scores the trailing completed weeks for every user so weekly
// history exists without waiting for live traffic.
func (s *Service) Backfill(ctx context.Context, opts BackfillOptions) (*BackfillReport, error) {
	if opts.Weeks < 1 {
		return nil, fmt.Errorf("%w: backfill needs at least one week", ErrInvalidRequest)
	}
	maxConc := opts.Concurrency
	if maxConc < 1 {
		maxConc = 1
	}

	users := opts.UserIDs
	if len(users) == 0 {
		var err error
		users, err = s.store.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
	}

	ends := CompletedWeekEnds(s.now(), opts.Weeks)
	s.log.Info("backfill starting", "users", len(users), "weeks", len(ends), "concurrency", maxConc)

	var (
		scored, noScore int32
		latestMu        sync.Mutex
		latest          = make(map[string]int)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConc)
	for _, userID := range users {
		userID := userID
		g.Go(func() error {
			// Weeks stay sequential per user so each read sees earlier upserts.
			for _, end := range ends {
				if err := gctx.Err(); err != nil {
					return err
				}
				resp, err := s.computeWeek(gctx, userID, WindowsEnding(end))
				if err != nil {
					return fmt.Errorf("backfill %s week of %s: %w", userID, models.ISOWeekStart(end).Format(models.DateLayout), err)
				}
				if resp.Score7d == nil {
					atomic.AddInt32(&noScore, 1)
					continue
				}
				atomic.AddInt32(&scored, 1)
				latestMu.Lock()
				latest[userID] = *resp.Score7d
				latestMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &BackfillReport{
		Users:   len(users),
		Weeks:   len(ends),
		Scored:  int(scored),
		NoScore: int(noScore),
		Latest:  latest,
	}
	s.log.Info("backfill finished", "scored", report.Scored, "no_score", report.NoScore)
	return report, nil
}
