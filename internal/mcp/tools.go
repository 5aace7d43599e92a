// ABOUTME: MCP tool implementations for wellness data and scores.
// ABOUTME: Records daily readings and demographics, computes and lists weekly scores.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/wellness"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// record_daily_metric
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_daily_metric",
		Description: "Record one day's wearable reading (resting_hr, steps, sleep_hours, hrv) for a user",
	}, s.handleRecordDailyMetric)

	// set_demographics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_demographics",
		Description: "Set a user's age, BMI, height or weight used as scoring context",
	}, s.handleSetDemographics)

	// get_wellness_score
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_wellness_score",
		Description: "Compute and store the 7-day wellness score for a user, with confidence and drivers",
	}, s.handleGetWellnessScore)

	// list_weekly_scores
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_weekly_scores",
		Description: "List a user's stored weekly scores, newest first",
	}, s.handleListWeeklyScores)
}

// Tool input/output types

type recordDailyMetricInput struct {
	UserID     string  `json:"user_id" jsonschema:"User identifier"`
	MetricType string  `json:"metric_type" jsonschema:"One of resting_hr, steps, sleep_hours, hrv"`
	Value      float64 `json:"value" jsonschema:"The reading for that day"`
	Date       string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type dailyOutput struct {
	UserID     string  `json:"user_id"`
	Date       string  `json:"date"`
	MetricType string  `json:"metric_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Message    string  `json:"message"`
}

type setDemographicsInput struct {
	UserID   string   `json:"user_id" jsonschema:"User identifier"`
	Age      *float64 `json:"age,omitempty" jsonschema:"Age in years"`
	BMI      *float64 `json:"bmi,omitempty" jsonschema:"Body mass index"`
	HeightCm *float64 `json:"height_cm,omitempty" jsonschema:"Height in centimetres"`
	WeightKg *float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kilograms"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type getWellnessScoreInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
	From   string `json:"from,omitempty" jsonschema:"First day of the week as YYYY-MM-DD"`
	To     string `json:"to,omitempty" jsonschema:"Last day of the week as YYYY-MM-DD, defaults to today"`
	Legacy bool   `json:"legacy,omitempty" jsonschema:"Return the legacy status/band/drivers payload instead"`
}

type listWeeklyScoresInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 12)"`
}

type weeklyOutput struct {
	WeekStart  string `json:"week_start"`
	Score7d    int    `json:"score_7d"`
	ScoreLevel string `json:"score_level"`
}

// Tool handlers

func (s *Server) handleRecordDailyMetric(ctx context.Context, req *mcp.CallToolRequest, input recordDailyMetricInput) (*mcp.CallToolResult, dailyOutput, error) {
	if input.UserID == "" {
		return nil, dailyOutput{}, fmt.Errorf("user_id is required")
	}
	if !models.IsValidMetricType(input.MetricType) {
		return nil, dailyOutput{}, fmt.Errorf("unknown metric type: %s", input.MetricType)
	}

	day := models.Day(time.Now())
	if input.Date != "" {
		d, err := models.ParseDay(input.Date)
		if err != nil {
			return nil, dailyOutput{}, err
		}
		day = d
	}

	mt := models.MetricType(input.MetricType)
	r := models.NewDailyMetricRecord(input.UserID, day).WithValue(mt, input.Value)
	if err := s.repo.SaveDailyRecord(ctx, r); err != nil {
		return nil, dailyOutput{}, fmt.Errorf("failed to save daily record: %w", err)
	}

	unit := models.MetricUnits[mt]
	return nil, dailyOutput{
		UserID:     input.UserID,
		Date:       day.Format(models.DateLayout),
		MetricType: input.MetricType,
		Value:      input.Value,
		Unit:       unit,
		Message:    fmt.Sprintf("Recorded %s for %s on %s: %g %s", input.MetricType, input.UserID, day.Format(models.DateLayout), input.Value, unit),
	}, nil
}

func (s *Server) handleSetDemographics(ctx context.Context, req *mcp.CallToolRequest, input setDemographicsInput) (*mcp.CallToolResult, simpleOutput, error) {
	if input.UserID == "" {
		return nil, simpleOutput{}, fmt.Errorf("user_id is required")
	}
	d := &models.Demographics{
		UserID:   input.UserID,
		Age:      input.Age,
		BMI:      input.BMI,
		HeightCm: input.HeightCm,
		WeightKg: input.WeightKg,
	}
	if err := s.repo.SaveDemographics(ctx, d); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save demographics: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated demographics for %s", input.UserID)}, nil
}

func (s *Server) handleGetWellnessScore(ctx context.Context, req *mcp.CallToolRequest, input getWellnessScoreInput) (*mcp.CallToolResult, any, error) {
	wreq := wellness.Request{UserID: input.UserID}
	if input.From != "" {
		d, err := models.ParseDay(input.From)
		if err != nil {
			return nil, nil, err
		}
		wreq.From = &d
	}
	if input.To != "" {
		d, err := models.ParseDay(input.To)
		if err != nil {
			return nil, nil, err
		}
		wreq.To = &d
	}

	resp, err := s.svc.Compute(ctx, wreq)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute score: %w", err)
	}
	s.log.Debug("scored week", "user", input.UserID, "legacy", input.Legacy)
	if input.Legacy {
		return nil, resp.Legacy, nil
	}
	return nil, resp, nil
}

func (s *Server) handleListWeeklyScores(ctx context.Context, req *mcp.CallToolRequest, input listWeeklyScoresInput) (*mcp.CallToolResult, any, error) {
	if input.UserID == "" {
		return nil, nil, fmt.Errorf("user_id is required")
	}
	if input.Limit <= 0 {
		input.Limit = 12
	}

	scores, err := s.repo.RecentWeeklyScores(ctx, input.UserID, models.Day(time.Now()), input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list weekly scores: %w", err)
	}
	if len(scores) == 0 {
		return nil, map[string]interface{}{"message": "No weekly scores found."}, nil
	}

	out := make([]weeklyOutput, 0, len(scores))
	for _, w := range scores {
		out = append(out, weeklyOutput{
			WeekStart:  w.WeekStart.Format(models.DateLayout),
			Score7d:    w.Score7d,
			ScoreLevel: w.ScoreLevel,
		})
	}
	return nil, out, nil
}
