// ABOUTME: CLI command for viewing and setting a user's demographics.
// ABOUTME: Age and BMI feed the score's context multiplier.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <user>",
	Short: "Show or set demographics",
	Long: `Show a user's demographics, or update them with flags. Only the flags
you pass are changed.

Examples:
  wellness profile alice
  wellness profile alice --age 41
  wellness profile alice --height 178 --weight 74`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		d := &models.Demographics{UserID: userID}
		changed := false
		for name, dst := range map[string]**float64{
			"age":    &d.Age,
			"bmi":    &d.BMI,
			"height": &d.HeightCm,
			"weight": &d.WeightKg,
		} {
			if !cmd.Flags().Changed(name) {
				continue
			}
			v, _ := cmd.Flags().GetFloat64(name)
			*dst = &v
			changed = true
		}

		if changed {
			if err := repo.SaveDemographics(ctx, d); err != nil {
				return fmt.Errorf("failed to save demographics: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("✓ Updated profile for %s", userID))
		}

		current, err := repo.GetDemographics(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintln(out, color.YellowString("No demographics for %s.", userID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load demographics: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("age   "), optional(current.Age, "%.0f"))
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("bmi   "), optional(current.EffectiveBMI(), "%.1f"))
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("height"), optional(current.HeightCm, "%.0f cm"))
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("weight"), optional(current.WeightKg, "%.1f kg"))
		return nil
	},
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func init() {
	profileCmd.Flags().Float64("age", 0, "age in years")
	profileCmd.Flags().Float64("bmi", 0, "body mass index")
	profileCmd.Flags().Float64("height", 0, "height in cm")
	profileCmd.Flags().Float64("weight", 0, "weight in kg")
	rootCmd.AddCommand(profileCmd)
}
