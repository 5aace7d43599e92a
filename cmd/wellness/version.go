// ABOUTME: CLI command that prints the build version.
// ABOUTME: Runs without loading config or opening storage.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wellness version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wellness %s\n", version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
