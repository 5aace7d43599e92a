// ABOUTME: CLI command that dumps stored readings, profiles and scores.
// ABOUTME: Formats are json and yaml for every user, or markdown for one.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportUser   string
	exportSince  string
)

type exporter func(ctx context.Context) ([]byte, error)

var exportFormats = []string{"json", "yaml", "markdown"}

func exporterFor(format string) (exporter, error) {
	switch format {
	case "json":
		return func(ctx context.Context) ([]byte, error) { return storage.ExportJSON(ctx, repo) }, nil
	case "yaml":
		return func(ctx context.Context) ([]byte, error) { return storage.ExportYAML(ctx, repo) }, nil
	case "markdown":
		if exportUser == "" {
			return nil, fmt.Errorf("markdown export needs --user")
		}
		var since time.Time
		if exportSince != "" {
			d, err := parseDay(exportSince, time.Now())
			if err != nil {
				return nil, fmt.Errorf("--since %q: want YYYY-MM-DD", exportSince)
			}
			since = d
		}
		return func(ctx context.Context) ([]byte, error) {
			md, err := storage.ExportMarkdown(ctx, repo, exportUser, since)
			return []byte(md), err
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q (choose json, yaml or markdown)", format)
}

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Dump stored wellness data",
	Long: `Dump stored readings, demographics and weekly scores.

  json       Everything, in the shape 'wellness import' reads back
  yaml       Everything, grouped by user
  markdown   Tables for a single user (requires --user)

Examples:

  wellness export json -o backup.json
  wellness export yaml
  wellness export markdown -u alice --since 2025-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: exportFormats,
	RunE: func(cmd *cobra.Command, args []string) error {
		export, err := exporterFor(args[0])
		if err != nil {
			return err
		}
		data, err := export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if exportOutput == "" {
			_, err = fmt.Fprintln(out, string(data))
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Fprintln(out, color.GreenString("✓ Wrote %s export to %s", args[0], exportOutput))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	f.StringVarP(&exportUser, "user", "u", "", "user to export (markdown)")
	f.StringVar(&exportSince, "since", "", "earliest day to include, YYYY-MM-DD (markdown)")

	rootCmd.AddCommand(exportCmd)
}
