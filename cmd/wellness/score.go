// ABOUTME: CLI command for computing a user's weekly wellness score.
// ABOUTME: Prints a summary table, the full diagnostics as JSON, or the legacy payload.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/scoring"
	"github.com/harperreed/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

var (
	scoreFrom   string
	scoreTo     string
	scoreJSON   bool
	scoreLegacy bool
)

var scoreCmd = &cobra.Command{
	Use:     "score <user>",
	Aliases: []string{"s"},
	Short:   "Compute the weekly wellness score",
	Long: `Compute the 7-day wellness score for a user, store it for the ISO week,
and smooth it over the most recent stored weeks.

WINDOW:

  By default the week ends today. --to picks the last day; --from alone
  scores the 7 days starting there.

OUTPUT:

  --json     Full response including diagnostics
  --legacy   Legacy {status, band, confidence, drivers} payload

Examples:
  wellness score alice
  wellness score alice --to 2025-03-09
  wellness score alice --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		req := wellness.Request{UserID: args[0]}
		if scoreFrom != "" {
			d, err := parseDay(scoreFrom, now)
			if err != nil {
				return fmt.Errorf("invalid --from: %s", scoreFrom)
			}
			req.From = &d
		}
		if scoreTo != "" {
			d, err := parseDay(scoreTo, now)
			if err != nil {
				return fmt.Errorf("invalid --to: %s", scoreTo)
			}
			req.To = &d
		}

		resp, err := svc.Compute(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case scoreLegacy:
			return writeJSON(out, resp.Legacy)
		case scoreJSON:
			return writeJSON(out, resp)
		default:
			printScore(out, resp)
			return nil
		}
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printScore(w io.Writer, resp *wellness.Response) {
	faint := color.New(color.Faint)
	fmt.Fprintf(w, "%s  %s → %s\n", color.New(color.Bold).Sprint(resp.UserID), resp.WindowFrom, resp.WindowTo)

	if resp.Score7d == nil {
		fmt.Fprintln(w, color.YellowString("No score: not enough wearable data this week."))
		fmt.Fprintf(w, "%s %s\n", faint.Sprint("confidence"), resp.Confidence)
		return
	}

	fmt.Fprintf(w, "%s %s\n", padRight("score (7d)", 12), scoreColor(*resp.Score7d).Sprintf("%d", *resp.Score7d))
	if resp.SmoothingAvailable {
		fmt.Fprintf(w, "%s %d\n", padRight("score (28d)", 12), *resp.Score28d)
	} else {
		fmt.Fprintf(w, "%s %s\n", padRight("score (28d)", 12), faint.Sprint("building history"))
	}
	fmt.Fprintf(w, "%s %s\n", padRight("level", 12), resp.ScoreLevel)
	fmt.Fprintf(w, "%s %s (%s)\n", padRight("confidence", 12), resp.Confidence, strings.ReplaceAll(string(resp.UXReason), "_", " "))

	if len(resp.Legacy.Drivers) > 0 {
		fmt.Fprintln(w)
		for _, d := range resp.Legacy.Drivers {
			fmt.Fprintf(w, "  • %s\n", d)
		}
	}
}

func scoreColor(score int) *color.Color {
	switch scoring.LegacyBand(score) {
	case "low":
		return color.New(color.FgGreen, color.Bold)
	case "medium":
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFrom, "from", "", "first day of the week (YYYY-MM-DD)")
	scoreCmd.Flags().StringVar(&scoreTo, "to", "", "last day of the week (YYYY-MM-DD, default today)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the full response as JSON")
	scoreCmd.Flags().BoolVar(&scoreLegacy, "legacy", false, "print the legacy payload as JSON")
	rootCmd.AddCommand(scoreCmd)
}
