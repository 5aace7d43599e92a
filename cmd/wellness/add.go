// ABOUTME: CLI command for recording one daily wearable reading.
// ABOUTME: Readings for the same user and day merge into one record.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
)

var addDate string

var addCmd = &cobra.Command{
	Use:     "add <user> <type> <value>",
	Aliases: []string{"a"},
	Short:   "Record a daily reading",
	Long: `Record one day's reading for a user. Recording another metric for the
same day adds to that day's record instead of replacing it.

TYPES:

  resting_hr, steps, sleep_hours, hrv

Examples:
  wellness add alice steps 9400
  wellness add alice sleep_hours 7.5 --date 2025-03-03
  wellness add alice hrv 48 --date yesterday`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, metricType := args[0], args[1]

		if !models.IsValidMetricType(metricType) {
			return fmt.Errorf("unknown metric type: %s\nValid types: resting_hr, steps, sleep_hours, hrv", metricType)
		}

		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[2])
		}

		day := models.Day(time.Now())
		if addDate != "" {
			day, err = parseDay(addDate, time.Now())
			if err != nil {
				return fmt.Errorf("invalid date: %s", addDate)
			}
		}

		mt := models.MetricType(metricType)
		r := models.NewDailyMetricRecord(userID, day).WithValue(mt, value)
		if err := repo.SaveDailyRecord(cmd.Context(), r); err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Recorded %s", metricType))
		fmt.Fprintf(out, "  %s %s %g %s\n",
			color.New(color.Faint).Sprint(day.Format(models.DateLayout)),
			userID, value, models.MetricUnits[mt])
		return nil
	},
}

// parseDay accepts YYYY-MM-DD, "today" or "yesterday".
func parseDay(s string, now time.Time) (time.Time, error) {
	switch s {
	case "today":
		return models.Day(now), nil
	case "yesterday":
		return models.Day(now).AddDate(0, 0, -1), nil
	}
	return models.ParseDay(s)
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "day of the reading (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(addCmd)
}
