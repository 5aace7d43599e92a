// ABOUTME: Tests for export, import, and backend migration.
// ABOUTME: Round-trips data from SQLite into badger and back out as text.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"gopkg.in/yaml.v3"
)

func seed(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		r := models.NewDailyMetricRecord("u1", day("2025-03-03").AddDate(0, 0, i)).
			WithValue(models.MetricRestingHR, 60).
			WithValue(models.MetricSleepHours, 7)
		if err := repo.SaveDailyRecord(ctx, r); err != nil {
			t.Fatalf("SaveDailyRecord failed: %v", err)
		}
	}
	if err := repo.SaveDemographics(ctx, &models.Demographics{UserID: "u1", Age: fp(35), BMI: fp(22)}); err != nil {
		t.Fatalf("SaveDemographics failed: %v", err)
	}
	for _, w := range []string{"2025-02-24", "2025-03-03"} {
		if err := repo.UpsertWeeklyScore(ctx, models.NewWeeklyScoreRecord("u1", day(w), 66, "standard")); err != nil {
			t.Fatalf("UpsertWeeklyScore failed: %v", err)
		}
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seed(t, src)
	ctx := context.Background()

	raw, err := ExportJSON(ctx, src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Version != ExportVersion || decoded.Tool != "wellness" {
		t.Errorf("unexpected header: %s %s", decoded.Version, decoded.Tool)
	}
	if len(decoded.DailyRecords) != 5 || len(decoded.Demographics) != 1 || len(decoded.WeeklyScores) != 2 {
		t.Fatalf("unexpected counts: %d daily, %d demographics, %d weekly",
			len(decoded.DailyRecords), len(decoded.Demographics), len(decoded.WeeklyScores))
	}
	if !decoded.WeeklyScores[0].WeekStart.Before(decoded.WeeklyScores[1].WeekStart) {
		t.Error("weekly scores should be exported oldest first")
	}

	dst := setupTestKV(t)
	if _, err := ImportJSON(ctx, dst, raw); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	scores, err := dst.RecentWeeklyScores(ctx, "u1", day("2025-12-31"), 0)
	if err != nil {
		t.Fatalf("RecentWeeklyScores failed: %v", err)
	}
	if len(scores) != 2 || scores[0].ID != decoded.WeeklyScores[1].ID {
		t.Errorf("weekly score IDs not preserved on import: %+v", scores)
	}
}

func TestImportJSONRejectsUnknownVersion(t *testing.T) {
	_, err := ImportJSON(context.Background(), setupTestKV(t), []byte(`{"version":"9.9"}`))
	if err == nil || !strings.Contains(err.Error(), "unsupported export version") {
		t.Errorf("expected version error, got %v", err)
	}
}

func TestExportYAML(t *testing.T) {
	repo := setupTestKV(t)
	seed(t, repo)

	raw, err := ExportYAML(context.Background(), repo)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	var decoded struct {
		Tool  string `yaml:"tool"`
		Users map[string]struct {
			Days  []map[string]any `yaml:"days"`
			Weeks []map[string]any `yaml:"weeks"`
		} `yaml:"users"`
	}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	u, ok := decoded.Users["u1"]
	if !ok {
		t.Fatalf("user u1 missing from YAML export:\n%s", raw)
	}
	if len(u.Days) != 5 || len(u.Weeks) != 2 {
		t.Errorf("unexpected counts: %d days, %d weeks", len(u.Days), len(u.Weeks))
	}
}

func TestExportMarkdown(t *testing.T) {
	repo := setupTestDB(t)
	seed(t, repo)

	md, err := ExportMarkdown(context.Background(), repo, "u1", day("2025-03-05"))
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "| 2025-03-06 | 60 bpm | - | 7.0 h | - |") {
		t.Errorf("missing daily row:\n%s", md)
	}
	if strings.Contains(md, "| 2025-03-04 |") {
		t.Errorf("row before since should be filtered:\n%s", md)
	}
	if !strings.Contains(md, "| 2025-03-03 | 66 | standard |") || strings.Contains(md, "| 2025-02-24 |") {
		t.Errorf("weekly table not filtered to since:\n%s", md)
	}
}

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	seed(t, src)
	dst := setupTestKV(t)

	summary, err := MigrateData(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Users != 1 || summary.DailyRecords != 5 || summary.Demographics != 1 || summary.WeeklyScores != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	got, err := dst.ListDailyRecords(context.Background(), "u1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListDailyRecords failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 migrated records, got %d", len(got))
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()
	nonEmpty, err := IsDirNonEmpty(dir)
	if err != nil || nonEmpty {
		t.Fatalf("empty dir: got %v, %v", nonEmpty, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Fatalf("non-empty dir: got %v, %v", nonEmpty, err)
	}
	nonEmpty, err = IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || nonEmpty {
		t.Fatalf("missing dir: got %v, %v", nonEmpty, err)
	}
}
