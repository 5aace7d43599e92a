// ABOUTME: CLI command that loads a JSON export back into storage.
// ABOUTME: Daily readings merge; weekly scores replace the stored week.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a JSON export",
	Long: `Load a file written by 'wellness export json'.

Daily readings and demographics merge with what is already stored.
A weekly score replaces any stored score for the same user and week.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		data, err := storage.ImportJSON(cmd.Context(), repo, raw)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Imported %s", args[0]))
		fmt.Fprintf(out, "  %d daily records, %d profiles, %d weekly scores\n",
			len(data.DailyRecords), len(data.Demographics), len(data.WeeklyScores))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
