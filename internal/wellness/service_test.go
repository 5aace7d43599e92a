// ABOUTME: Tests for the weekly orchestrator: persistence, smoothing, and degradation.
// ABOUTME: Uses an in-memory store so failures can be injected per operation.
package wellness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/scoring"
)

var (
	testNow = time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	errBoom = errors.New("boom")
)

func newTestService(store *fakeStore) *Service {
	return NewService(store, nil, WithClock(func() time.Time { return testNow }))
}

func TestRequestEnd(t *testing.T) {
	from := mustDay("2025-03-01")
	to := mustDay("2025-03-05")

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"default anchors on today", Request{UserID: "u1"}, "2025-03-09"},
		{"to only", Request{UserID: "u1", To: &to}, "2025-03-05"},
		{"from only spans a week", Request{UserID: "u1", From: &from}, "2025-03-07"},
		{"both uses to", Request{UserID: "u1", From: &from, To: &to}, "2025-03-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, err := tt.req.End(testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, end.Format(models.DateLayout))
		})
	}
}

func TestRequestEndInvalid(t *testing.T) {
	from := mustDay("2025-03-05")
	to := mustDay("2025-03-01")

	_, err := Request{}.End(testNow)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = Request{UserID: "u1", From: &from, To: &to}.End(testNow)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestComputeFirstWeekHasNoSmoothing(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Score7d)
	require.NotNil(t, resp.Score28d)

	assert.Equal(t, scoring.LevelStandard, resp.ScoreLevel)
	assert.Equal(t, scoring.ModeBaselineRelative, resp.Mode)
	assert.False(t, resp.SmoothingAvailable)
	assert.Equal(t, *resp.Score7d, *resp.Score28d)
	assert.Equal(t, scoring.ConfidenceMedium, resp.Confidence)
	assert.Equal(t, scoring.ReasonBuildingHistory, resp.UXReason)
	assert.Equal(t, "2025-03-03", resp.WeekStart)

	stored := store.week("u1", "2025-03-03")
	require.NotNil(t, stored, "score should be persisted")
	assert.Equal(t, *resp.Score7d, stored.Score7d)
	assert.Equal(t, "standard", stored.ScoreLevel)

	assert.Equal(t, scoring.LegacyStatusOK, resp.Legacy.Status)
	assert.Equal(t, scoring.LegacyBand(*resp.Score7d), resp.Legacy.Band)
	assert.LessOrEqual(t, len(resp.Legacy.Drivers), scoring.MaxDrivers)
}

func TestComputeCalibratedAndSmoothed(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	store.seedWeek("u1", "2025-02-17", 40)
	store.seedWeek("u1", "2025-02-24", 90)
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Score7d)

	assert.Equal(t, scoring.LevelCalibrated, resp.ScoreLevel)
	assert.True(t, resp.SmoothingAvailable)
	assert.Equal(t, scoring.ConfidenceHigh, resp.Confidence)
	assert.Equal(t, scoring.ConfidenceHigh, resp.Diagnostics.Confidence)

	want, ok := Smooth([]*models.WeeklyScoreRecord{
		{Score7d: 40}, {Score7d: 90}, {Score7d: *resp.Score7d},
	})
	require.True(t, ok)
	assert.Equal(t, want, *resp.Score28d)
}

func TestComputeIsIdempotentPerWeek(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	svc := newTestService(store)

	first, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	second, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, *first.Score7d, *second.Score7d)
	// the week's own row never counts toward calibration
	assert.Equal(t, scoring.LevelStandard, second.ScoreLevel)
	assert.False(t, second.SmoothingAvailable)
	assert.Equal(t, 2, store.upserts)
}

func TestComputeNoScoreSkipsPersistence(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 2))
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)

	assert.Nil(t, resp.Score7d)
	assert.Nil(t, resp.Score28d)
	assert.Equal(t, scoring.LevelNoScore, resp.ScoreLevel)
	assert.Equal(t, scoring.ModeNone, resp.Mode)
	assert.Equal(t, scoring.ConfidenceInsufficientData, resp.Confidence)
	assert.Equal(t, scoring.LegacyStatusInsufficient, resp.Legacy.Status)
	assert.Empty(t, resp.Legacy.Drivers)
	assert.Zero(t, store.upserts)
}

func TestComputeUpsertFailureStillReturnsScore(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	store.seedWeek("u1", "2025-02-17", 40)
	store.seedWeek("u1", "2025-02-24", 90)
	store.upsertErr = errBoom
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Score7d)

	assert.False(t, resp.SmoothingAvailable)
	assert.Equal(t, *resp.Score7d, *resp.Score28d)
	assert.NotEqual(t, scoring.ConfidenceHigh, resp.Confidence)
}

func TestComputeReadBackFailureDisablesSmoothing(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	svc := newTestService(store)
	store.recentErr = errBoom

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Score7d)
	assert.False(t, resp.SmoothingAvailable)
	assert.Equal(t, scoring.LevelStandard, resp.ScoreLevel)
}

func TestComputeDailyReadFailureDegrades(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	store.dailyErr = errBoom
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	assert.Nil(t, resp.Score7d)
	assert.Equal(t, scoring.LevelNoScore, resp.ScoreLevel)
}

func TestComputeDemographicsFailureDegrades(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	store.demoErr = errBoom
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Score7d)
	assert.Zero(t, resp.Diagnostics.WeightsUsed.Context)
}

func TestComputeUsesDemographics(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 63))
	age, bmi := 45.0, 31.0
	store.demo["u1"] = &models.Demographics{UserID: "u1", Age: &age, BMI: &bmi}
	svc := newTestService(store)

	resp, err := svc.Compute(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Diagnostics.Components.ContextNorm)
	assert.Greater(t, resp.Diagnostics.WeightsUsed.Context, 0.0)
}

func TestComputeInvalidRequest(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.Compute(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestComputeExplicitPastWeek(t *testing.T) {
	store := newFakeStore()
	store.addDays(history("u1", testNow, 90))
	svc := newTestService(store)

	to := mustDay("2025-02-16")
	resp, err := svc.Compute(context.Background(), Request{UserID: "u1", To: &to})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-10", resp.WeekStart)
	assert.Equal(t, "2025-02-10", resp.WindowFrom)
	assert.Equal(t, "2025-02-16", resp.WindowTo)
	assert.NotNil(t, store.week("u1", "2025-02-10"))
}

func TestSmooth(t *testing.T) {
	_, ok := Smooth(nil)
	assert.False(t, ok)
	_, ok = Smooth([]*models.WeeklyScoreRecord{{Score7d: 50}})
	assert.False(t, ok)

	got, ok := Smooth([]*models.WeeklyScoreRecord{{Score7d: 50}, {Score7d: 61}})
	require.True(t, ok)
	assert.Equal(t, 56, got) // 55.5 rounds half away from zero

	got, ok = Smooth([]*models.WeeklyScoreRecord{{Score7d: 80}, {Score7d: 20}, {Score7d: 70}, {Score7d: 60}})
	require.True(t, ok)
	assert.Equal(t, 65, got)
}
