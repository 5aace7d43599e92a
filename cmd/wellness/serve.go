// ABOUTME: CLI command for starting the HTTP API server.
// ABOUTME: Serves scoring and ingestion routes until interrupted.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/wellness/internal/httpapi"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the wellness engine as a JSON API.

The listen address comes from --addr, then http_addr in the config,
then 127.0.0.1:8080.

ROUTES:

  GET  /healthcheck
  GET  /api/users
  POST /api/users/:user_id/daily          {"date", "metric_type", "value"}
  GET  /api/users/:user_id/daily          ?from=YYYY-MM-DD&to=YYYY-MM-DD
  GET  /api/users/:user_id/demographics
  PUT  /api/users/:user_id/demographics   {"age", "bmi", "height_cm", "weight_kg"}
  GET  /api/users/:user_id/score          ?from=&to=&legacy=true
  GET  /api/users/:user_id/weekly         ?limit=12
  POST /api/backfill                      {"weeks", "concurrency", "user_ids"}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.GetLogMode() != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}

		addr := cfg.GetHTTPAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := httpapi.NewServer(httpapi.RouterConfig{Repo: repo, Service: svc, Log: log})
		return server.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config or 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
