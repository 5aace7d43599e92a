// ABOUTME: Model Context Protocol front end for the wellness scoring engine.
// ABOUTME: Exposes metric capture and weekly scoring as tools over any transport.
package mcp

import (
	"context"

	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/harperreed/wellness/internal/wellness"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "wellness"

const instructions = `Record daily wearable readings with record_daily_metric, ` +
	`then call get_wellness_score for a 0-100 weekly score. ` +
	`Scores need at least one day of data in the week.`

// Options configures a Server.
type Options struct {
	Version string
	Log     *logger.Logger
}

// Server exposes wellness tools and resources to MCP clients.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	svc       *wellness.Service
	log       *logger.Logger
}

// NewServer builds a Server backed by repo, scoring through svc.
func NewServer(repo storage.Repository, svc *wellness.Service, opts Options) (*Server, error) {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{Name: serverName, Version: opts.Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		repo: repo,
		svc:  svc,
		log:  opts.Log.With("component", "mcp"),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves requests on t until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.log.Debug("session starting")
	err := s.mcpServer.Run(ctx, t)
	s.log.Debug("session ended", "error", err)
	return err
}

// Serve runs the server over stdin and stdout.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
