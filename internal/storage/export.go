// ABOUTME: Export and import functionality for wellness data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export file format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for wellness data.
type ExportData struct {
	Version      string                      `json:"version" yaml:"version"`
	ExportedAt   time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tool         string                      `json:"tool" yaml:"tool"`
	DailyRecords []*models.DailyMetricRecord `json:"daily_records" yaml:"daily_records"`
	Demographics []*models.Demographics      `json:"demographics" yaml:"demographics"`
	WeeklyScores []*models.WeeklyScoreRecord `json:"weekly_scores" yaml:"weekly_scores"`
}

// GetAllData retrieves all data for export, grouped by user.
func GetAllData(ctx context.Context, repo Repository) (*ExportData, error) {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:      ExportVersion,
		ExportedAt:   time.Now().UTC(),
		Tool:         "wellness",
		DailyRecords: []*models.DailyMetricRecord{},
		Demographics: []*models.Demographics{},
		WeeklyScores: []*models.WeeklyScoreRecord{},
	}
	for _, u := range users {
		records, err := repo.ListDailyRecords(ctx, u, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		data.DailyRecords = append(data.DailyRecords, records...)

		demo, err := repo.GetDemographics(ctx, u)
		switch {
		case err == nil:
			data.Demographics = append(data.Demographics, demo)
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}

		scores, err := repo.RecentWeeklyScores(ctx, u, farFuture, 0)
		if err != nil {
			return nil, err
		}
		// oldest first reads naturally in an export
		for i := len(scores) - 1; i >= 0; i-- {
			data.WeeklyScores = append(data.WeeklyScores, scores[i])
		}
	}
	return data, nil
}

// ImportData writes every record in data into repo. Daily records and
// demographics merge with what is stored; weekly scores overwrite by week.
func ImportData(ctx context.Context, repo Repository, data *ExportData) error {
	for _, r := range data.DailyRecords {
		if err := repo.SaveDailyRecord(ctx, r); err != nil {
			return fmt.Errorf("import daily record %s %s: %w", r.UserID, r.Date.Format(models.DateLayout), err)
		}
	}
	for _, d := range data.Demographics {
		if err := repo.SaveDemographics(ctx, d); err != nil {
			return fmt.Errorf("import demographics %s: %w", d.UserID, err)
		}
	}
	for _, w := range data.WeeklyScores {
		if err := repo.UpsertWeeklyScore(ctx, w); err != nil {
			return fmt.Errorf("import weekly score %s: %w", w.ID, err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with daily readings grouped by user.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string              `yaml:"version"`
		ExportedAt string              `yaml:"exported_at"`
		Tool       string              `yaml:"tool"`
		Users      map[string]yamlUser `yaml:"users"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Users:      make(map[string]yamlUser),
	}

	for _, r := range data.DailyRecords {
		u := yamlData.Users[r.UserID]
		yd := yamlDay{
			Date:       r.Date.Format(models.DateLayout),
			RestingHR:  r.RestingHeartRate,
			Steps:      r.Steps,
			SleepHours: r.SleepHours,
			HRV:        r.HRV,
		}
		u.Days = append(u.Days, yd)
		yamlData.Users[r.UserID] = u
	}
	for _, d := range data.Demographics {
		u := yamlData.Users[d.UserID]
		u.Demographics = &yamlDemographics{Age: d.Age, BMI: d.EffectiveBMI(), HeightCm: d.HeightCm, WeightKg: d.WeightKg}
		yamlData.Users[d.UserID] = u
	}
	for _, w := range data.WeeklyScores {
		u := yamlData.Users[w.UserID]
		u.Weeks = append(u.Weeks, yamlWeek{
			WeekStart: w.WeekStart.Format(models.DateLayout),
			Score:     w.Score7d,
			Level:     w.ScoreLevel,
		})
		yamlData.Users[w.UserID] = u
	}

	return yaml.Marshal(yamlData)
}

type yamlUser struct {
	Demographics *yamlDemographics `yaml:"demographics,omitempty"`
	Days         []yamlDay         `yaml:"days,omitempty"`
	Weeks        []yamlWeek        `yaml:"weeks,omitempty"`
}

type yamlDemographics struct {
	Age      *float64 `yaml:"age,omitempty"`
	BMI      *float64 `yaml:"bmi,omitempty"`
	HeightCm *float64 `yaml:"height_cm,omitempty"`
	WeightKg *float64 `yaml:"weight_kg,omitempty"`
}

type yamlDay struct {
	Date       string   `yaml:"date"`
	RestingHR  *float64 `yaml:"resting_hr,omitempty"`
	Steps      *float64 `yaml:"steps,omitempty"`
	SleepHours *float64 `yaml:"sleep_hours,omitempty"`
	HRV        *float64 `yaml:"hrv,omitempty"`
}

type yamlWeek struct {
	WeekStart string `yaml:"week_start"`
	Score     int    `yaml:"score_7d"`
	Level     string `yaml:"score_level"`
}

// ExportMarkdown renders one user's daily readings and weekly scores since
// the given day (zero for everything) as Markdown tables.
func ExportMarkdown(ctx context.Context, repo Repository, userID string, since time.Time) (string, error) {
	records, err := repo.ListDailyRecords(ctx, userID, since, time.Time{})
	if err != nil {
		return "", err
	}
	scores, err := repo.RecentWeeklyScores(ctx, userID, farFuture, 0)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Wellness Export - %s - %s\n\n", userID, now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Daily readings\n\n")
	sb.WriteString("| Date | Resting HR | Steps | Sleep | HRV |\n")
	sb.WriteString("|------|------------|-------|-------|-----|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			r.Date.Format(models.DateLayout),
			cell(r.RestingHeartRate, "%.0f bpm"),
			cell(r.Steps, "%.0f"),
			cell(r.SleepHours, "%.1f h"),
			cell(r.HRV, "%.0f ms")))
	}

	sb.WriteString("\n## Weekly scores\n\n")
	sb.WriteString("| Week of | Score | Level |\n")
	sb.WriteString("|---------|-------|-------|\n")
	for i := len(scores) - 1; i >= 0; i-- {
		w := scores[i]
		if !since.IsZero() && w.WeekStart.Before(models.ISOWeekStart(since)) {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n",
			w.WeekStart.Format(models.DateLayout), w.Score7d, w.ScoreLevel))
	}

	return sb.String(), nil
}

func cell(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if data.Version != "" && data.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", data.Version)
	}
	if err := ImportData(ctx, repo, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
