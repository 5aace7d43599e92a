// ABOUTME: CLI command that serves the scoring engine over MCP.
// ABOUTME: Speaks JSON-RPC on stdin/stdout until interrupted.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/wellness/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve wellness tools over the Model Context Protocol",
	Long: `Serve the wellness tools to an MCP client over stdin/stdout.

Stdout carries protocol traffic only, so logs are written to stderr.

Example client entry:

  {
    "mcpServers": {
      "wellness": {"command": "wellness", "args": ["mcp"]}
    }
  }

Tools:

  record_daily_metric   Store one day's reading for a user
  set_demographics      Update age, BMI, height or weight
  get_wellness_score    Weekly score with confidence and drivers
  list_weekly_scores    Previously stored weekly scores

Resources:

  wellness://users                    Known users
  wellness://users/{user_id}/weekly   One user's weekly history`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, svc, mcp.Options{Version: version, Log: log})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("serving mcp on stdio", "backend", cfg.GetBackend(), "version", version)
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
