// ABOUTME: MCP resource implementations for wellness data.
// ABOUTME: Provides wellness://users and a per-user weekly history template.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	usersURI          = "wellness://users"
	weeklyURIPrefix   = "wellness://users/"
	weeklyURISuffix   = "/weekly"
	weeklyURITemplate = weeklyURIPrefix + "{user_id}" + weeklyURISuffix
)

func (s *Server) registerResources() {
	// wellness://users - every known user
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         usersURI,
		Name:        "Wellness Users",
		Description: "Every user with daily readings or demographics",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	// wellness://users/{user_id}/weekly - stored weekly scores
	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: weeklyURITemplate,
		Name:        "Weekly Score History",
		Description: "Stored weekly scores for one user, newest first",
		MIMEType:    "application/json",
	}, s.handleWeeklyResource)
}

// Resource handlers

func (s *Server) handleUsersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []string{}
	}
	return jsonResource(usersURI, map[string]interface{}{"users": users})
}

func (s *Server) handleWeeklyResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := ""
	if req != nil && req.Params != nil {
		uri = req.Params.URI
	}
	userID, ok := weeklyUserID(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	scores, err := s.repo.RecentWeeklyScores(ctx, userID, models.Day(time.Now()), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly scores: %w", err)
	}

	weeks := make([]weeklyOutput, 0, len(scores))
	for _, w := range scores {
		weeks = append(weeks, weeklyOutput{
			WeekStart:  w.WeekStart.Format(models.DateLayout),
			Score7d:    w.Score7d,
			ScoreLevel: w.ScoreLevel,
		})
	}
	return jsonResource(uri, map[string]interface{}{"user_id": userID, "weeks": weeks})
}

// weeklyUserID extracts the user from wellness://users/{user_id}/weekly.
func weeklyUserID(uri string) (string, bool) {
	if !strings.HasPrefix(uri, weeklyURIPrefix) || !strings.HasSuffix(uri, weeklyURISuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, weeklyURIPrefix), weeklyURISuffix)
	if id == "" {
		return "", false
	}
	return id, true
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
