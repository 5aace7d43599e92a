// ABOUTME: CLI command for backfilling historical weekly scores.
// ABOUTME: Scores completed past weeks for every user, or the ones named.
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

var (
	backfillWeeks       int
	backfillConcurrency int
)

var backfillCmd = &cobra.Command{
	Use:   "backfill [user...]",
	Short: "Score past weeks from stored history",
	Long: `Score the most recent completed ISO weeks for every user (or only the
users named) so weekly history exists before live scoring starts.

Users are processed in parallel. Each user's weeks run oldest first, so
later weeks can reach the calibrated level.

Defaults come from backfill_weeks and backfill_concurrency in the config.

Examples:
  wellness backfill
  wellness backfill --weeks 12 alice bob`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := wellness.BackfillOptions{
			Weeks:       cfg.GetBackfillWeeks(),
			Concurrency: cfg.GetBackfillConcurrency(),
			UserIDs:     args,
		}
		if cmd.Flags().Changed("weeks") {
			opts.Weeks = backfillWeeks
		}
		if cmd.Flags().Changed("concurrency") {
			opts.Concurrency = backfillConcurrency
		}

		report, err := svc.Backfill(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("backfill failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Backfilled %d users over %d weeks", report.Users, report.Weeks))
		fmt.Fprintf(out, "  %d weeks scored, %d without enough data\n", report.Scored, report.NoScore)

		users := make([]string, 0, len(report.Latest))
		for u := range report.Latest {
			users = append(users, u)
		}
		sort.Strings(users)
		for _, u := range users {
			fmt.Fprintf(out, "  %s %s\n", padRight(u, 16), scoreColor(report.Latest[u]).Sprintf("%d", report.Latest[u]))
		}
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVarP(&backfillWeeks, "weeks", "w", 0, "completed weeks to score per user")
	backfillCmd.Flags().IntVarP(&backfillConcurrency, "concurrency", "c", 0, "users processed at once")
	rootCmd.AddCommand(backfillCmd)
}
