// ABOUTME: Root Cobra command for wellness CLI.
// ABOUTME: Handles config, logger, and storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/wellness/internal/config"
	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/harperreed/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	log  *logger.Logger
	repo storage.Repository
	svc  *wellness.Service

	flagBackend string
	flagDataDir string
	flagLogMode string
)

var rootCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Weekly metabolic wellness score from wearable data",
	Long: `Wellness turns daily wearable readings into a weekly 0-100 wellness score.

WHAT IT READS:

  resting_hr    Resting heart rate (bpm)
  steps         Daily step count
  sleep_hours   Hours slept
  hrv           Heart rate variability (ms)

  Optional demographics (age, BMI or height and weight) add context.

QUICK START:

  $ wellness add alice steps 8200                   # Log today's steps
  $ wellness add alice resting_hr 58 --date 2025-03-03
  $ wellness profile alice --age 41 --bmi 23.5      # Set demographics
  $ wellness score alice                            # Score the last 7 days
  $ wellness history alice                          # Stored weekly scores

SCORE LEVELS:

  no_score      Not enough data for a score
  provisional   Partial week, score kept between 40 and 90
  standard      Most of the week is present
  calibrated    Personal baselines plus two prior weekly scores

BACKFILL:

  $ wellness backfill --weeks 8   # Score past weeks for every user

MCP INTEGRATION:

  Run 'wellness mcp' to start the Model Context Protocol server for
  MCP-compatible assistants.

DATA STORAGE:

  SQLite at ~/.local/share/wellness/wellness.db by default.
  Set "backend": "badger" in ~/.config/wellness/config.json for the
  embedded key-value store instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()
		applyFlagOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err = logger.New(cfg.GetLogMode())
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage(log)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		svc = wellness.NewService(repo, log)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeAll()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	// PostRun is skipped when RunE fails
	if cerr := closeAll(); err == nil {
		err = cerr
	}
	return err
}

func applyFlagOverrides(c *config.Config) {
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLogMode != "" {
		c.LogMode = flagLogMode
	}
}

func closeAll() error {
	var err error
	if repo != nil {
		err = repo.Close()
		repo = nil
	}
	if log != nil {
		log.Sync()
		log = nil
	}
	svc = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/wellness)")
	rootCmd.PersistentFlags().StringVar(&flagLogMode, "log-mode", "", "log mode: prod, dev or nop")
}
