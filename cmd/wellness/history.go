// ABOUTME: CLI command for listing stored weekly scores.
// ABOUTME: Shows newest weeks first with their score level.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyGraph bool
)

var historyCmd = &cobra.Command{
	Use:     "history <user>",
	Aliases: []string{"h"},
	Short:   "List stored weekly scores",
	Long: `List a user's stored weekly scores, newest first.

Each line shows: WEEK START  SCORE  LEVEL

With --graph, a chart of the scores (oldest on the left) follows the list.

Examples:
  wellness history alice
  wellness history alice -n 26 --graph`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scores, err := repo.RecentWeeklyScores(cmd.Context(), args[0], models.Day(time.Now()), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list weekly scores: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(scores) == 0 {
			fmt.Fprintln(out, "No weekly scores found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range scores {
			fmt.Fprintf(out, "%s  %s  %s\n",
				faint.Sprint(w.WeekStart.Format(models.DateLayout)),
				scoreColor(w.Score7d).Sprintf("%3d", w.Score7d),
				w.ScoreLevel)
		}

		if historyGraph && len(scores) > 1 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, scoreChart(scores))
		}
		return nil
	},
}

// scoreChart plots weekly scores oldest first on a fixed 0-100 axis.
func scoreChart(scores []*models.WeeklyScoreRecord) string {
	data := make([]float64, len(scores))
	for i, w := range scores {
		data[len(scores)-1-i] = float64(w.Score7d)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption("weekly score"),
	)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 12, "max number of weeks")
	historyCmd.Flags().BoolVar(&historyGraph, "graph", false, "chart the scores below the list")
	rootCmd.AddCommand(historyCmd)
}
