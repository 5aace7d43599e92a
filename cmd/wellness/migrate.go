// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves everything from the configured backend into the other one.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/config"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all wellness data from the configured backend into another one.

The destination lives in the same data directory and must be empty.
After migrating, set "backend" in ~/.config/wellness/config.json to switch.

USAGE:

  wellness migrate --to badger --dry-run   # Preview what would be copied
  wellness migrate --to badger             # Perform the migration
  wellness --backend badger migrate --to sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src := cfg.GetBackend()
		if migrateTo == src {
			return fmt.Errorf("source and destination are both %s", src)
		}

		dataDir := cfg.GetDataDir()
		if err := ensureEmptyDestination(migrateTo, dataDir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if migrateDryRun {
			data, err := storage.GetAllData(ctx, repo)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			fmt.Fprintf(out, "Would copy %d daily records, %d profiles, %d weekly scores from %s to %s\n",
				len(data.DailyRecords), len(data.Demographics), len(data.WeeklyScores), src, migrateTo)
			return nil
		}

		dst, err := config.OpenBackend(migrateTo, dataDir, log)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migrated %s → %s", src, migrateTo))
		fmt.Fprintf(out, "  %d users, %d daily records, %d profiles, %d weekly scores\n",
			summary.Users, summary.DailyRecords, summary.Demographics, summary.WeeklyScores)
		return nil
	},
}

func ensureEmptyDestination(backend, dataDir string) error {
	switch backend {
	case config.BackendBadger:
		dir := storage.KVPath(dataDir)
		nonEmpty, err := storage.IsDirNonEmpty(dir)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s is not empty", dir)
		}
	case config.BackendSQLite:
		path := storage.DBPath(dataDir)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("destination %s already exists", path)
		}
	default:
		return fmt.Errorf("unknown backend: %q", backend)
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendBadger, "destination backend: sqlite or badger")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
