// ABOUTME: End-to-end tests for the pure scoring pipeline.
// ABOUTME: Covers the sufficiency ladder, baseline modes, atypical weeks, and score bounds.
package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/wellness/internal/models"
)

var (
	primaryEnd  = testEnd.AddDate(0, 0, -7)
	fallbackEnd = testEnd.AddDate(0, 0, -35)
)

func sampleWeek() []*models.DailyMetricRecord {
	return week(testEnd, 7, sampleRHR, sampleSteps, sampleSleep, sampleHRV)
}

func TestComputeStandardAbsoluteFallback(t *testing.T) {
	res := Compute(Input{Current: sampleWeek()})

	assert.Equal(t, LevelStandard, res.ScoreLevel)
	assert.Equal(t, ModeAbsoluteFallback, res.Mode)
	require.NotNil(t, res.Score7d)
	assert.GreaterOrEqual(t, *res.Score7d, 0)
	assert.LessOrEqual(t, *res.Score7d, 100)

	assert.NotNil(t, res.Components.RHRBad)
	assert.NotNil(t, res.Components.StepsBad)
	assert.NotNil(t, res.Components.SleepBad)
	assert.NotNil(t, res.Components.HRVBad)
	assert.Greater(t, res.WeightsUsed.RHR, 0.0)
	assert.Greater(t, res.WeightsUsed.Steps, 0.0)
	assert.Greater(t, res.WeightsUsed.Sleep, 0.0)
	assert.Greater(t, res.WeightsUsed.HRV, 0.0)
	assert.InDelta(t, 1.0, res.WeightsUsed.Sum(), 0.02)

	assert.False(t, res.UsedBaseline.RHR)
	assert.Nil(t, res.Baselines.RHR)
	assert.False(t, res.AtypicalActivityWeek)
	assert.Nil(t, res.ZSteps)
}

func TestComputeBaselineRelative(t *testing.T) {
	res := Compute(Input{
		Current: sampleWeek(),
		Primary: steadyHistory(primaryEnd, 28),
	})

	assert.Equal(t, ModeBaselineRelative, res.Mode)
	assert.True(t, res.UsedBaseline.RHR)
	assert.True(t, res.UsedBaseline.Steps)
	assert.True(t, res.UsedBaseline.Sleep)
	assert.True(t, res.UsedBaseline.HRV)
	require.NotNil(t, res.Baselines.Steps)
	assert.Equal(t, BaselinePrimary, res.Baselines.Steps.Source)
	assert.Equal(t, 6000.0, res.Baselines.Steps.Median)
	// no persisted history yet, so calibrated is out of reach
	assert.Equal(t, LevelStandard, res.ScoreLevel)
}

func TestComputeCalibratedWithPriorScores(t *testing.T) {
	res := Compute(Input{
		Current:           sampleWeek(),
		Primary:           steadyHistory(primaryEnd, 28),
		PriorWeeklyScores: 2,
	})
	assert.Equal(t, LevelCalibrated, res.ScoreLevel)
	assert.Equal(t, ModeBaselineRelative, res.Mode)
}

func TestComputeFallbackWindowBaseline(t *testing.T) {
	res := Compute(Input{
		Current:  sampleWeek(),
		Primary:  steadyHistory(primaryEnd, 10),
		Fallback: steadyHistory(fallbackEnd, 28),
	})
	require.NotNil(t, res.Baselines.RHR)
	assert.Equal(t, BaselineFallback, res.Baselines.RHR.Source)
	assert.Equal(t, ModeBaselineRelative, res.Mode)
}

func TestComputeNoBaselineEitherWindow(t *testing.T) {
	res := Compute(Input{
		Current:  sampleWeek(),
		Primary:  steadyHistory(primaryEnd, 10),
		Fallback: steadyHistory(fallbackEnd, 13),
	})
	assert.Nil(t, res.Baselines.RHR)
	assert.Nil(t, res.Baselines.Steps)
	assert.Equal(t, ModeAbsoluteFallback, res.Mode)
}

func TestComputeNoScore(t *testing.T) {
	tests := []struct {
		name    string
		records []*models.DailyMetricRecord
	}{
		{"empty week", nil},
		{"only one core metric", week(testEnd, 7, sampleRHR, nil, nil, sampleHRV)},
		{"two days each", week(testEnd, 2, sampleRHR, sampleSteps, sampleSleep, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(Input{Current: tt.records})
			assert.Equal(t, LevelNoScore, res.ScoreLevel)
			assert.Nil(t, res.Score7d)
			assert.Equal(t, ConfidenceInsufficientData, res.Confidence)
			assert.Equal(t, ModeNone, res.Mode)
		})
	}
}

func TestComputeProvisionalBounds(t *testing.T) {
	nan := math.NaN()
	// Terrible values on four days of two metrics only.
	rhr := []float64{95, 96, 97, 98, nan, nan, nan}
	steps := []float64{500, 400, 300, 200, nan, nan, nan}
	res := Compute(Input{Current: week(testEnd, 7, rhr, steps, nil, nil)})

	require.Equal(t, LevelProvisional, res.ScoreLevel)
	require.NotNil(t, res.Score7d)
	assert.Equal(t, 40, *res.Score7d)
	assert.True(t, res.ScoreClamped)
	require.NotNil(t, res.RawScore)
	assert.Less(t, *res.RawScore, 40)
	assert.Equal(t, ConfidenceLow, res.Confidence)
	assert.Equal(t, ModeAbsoluteFallback, res.Mode)
}

func TestComputeProvisionalUpperBound(t *testing.T) {
	nan := math.NaN()
	rhr := []float64{48, 47, 49, 48, nan, nan, nan}
	steps := []float64{15000, 16000, 14000, 15500, nan, nan, nan}
	res := Compute(Input{Current: week(testEnd, 7, rhr, steps, nil, nil)})

	require.Equal(t, LevelProvisional, res.ScoreLevel)
	require.NotNil(t, res.Score7d)
	assert.Equal(t, 90, *res.Score7d)
	assert.Equal(t, 100, *res.RawScore)
}

func TestComputeMissingHRV(t *testing.T) {
	res := Compute(Input{Current: week(testEnd, 7, sampleRHR, sampleSteps, sampleSleep, nil)})

	assert.Nil(t, res.WeeklyHRV)
	assert.Nil(t, res.Components.HRVBad)
	assert.Equal(t, 0.0, res.WeightsUsed.HRV)
	assert.InDelta(t, 1.0, res.WeightsUsed.Sum(), 0.02)
	assert.Contains(t, res.Excluded, Exclusion{Metric: models.MetricHRV, Reason: ExclusionInsufficientDays})
}

func TestComputeAtypicalActivityWeek(t *testing.T) {
	steps := []float64{20000, 22000, 24000, 26000, 28000, 21000, 23000}
	res := Compute(Input{
		Current: week(testEnd, 7, sampleRHR, steps, sampleSleep, sampleHRV),
		Primary: steadyHistory(primaryEnd, 28),
	})

	assert.True(t, res.AtypicalActivityWeek)
	require.NotNil(t, res.ZSteps)
	assert.Greater(t, math.Abs(*res.ZSteps), 2.0)
	assert.Less(t, res.WeightsUsed.Steps, BaseWeightSteps)
	assert.Equal(t, ConfidenceLow, res.Confidence)
	assert.Equal(t, ReasonAtypicalActivity, res.UXReason)
}

func TestComputeSleepOutlierRobustness(t *testing.T) {
	outlier := append([]float64(nil), sampleSleep...)
	outlier[2] = 20

	clean := Compute(Input{Current: week(testEnd, 7, sampleRHR, sampleSteps, sampleSleep, sampleHRV)})
	dirty := Compute(Input{Current: week(testEnd, 7, sampleRHR, sampleSteps, outlier, sampleHRV)})

	require.NotNil(t, clean.Components.SleepBad)
	require.NotNil(t, dirty.Components.SleepBad)
	assert.Less(t, math.Abs(*dirty.Components.SleepBad-*clean.Components.SleepBad), 0.25)
}

func TestComputeContextMultiplier(t *testing.T) {
	age, bmi := 65.0, 35.0
	without := Compute(Input{Current: sampleWeek()})
	with := Compute(Input{
		Current:      sampleWeek(),
		Demographics: &models.Demographics{UserID: "u1", Age: &age, BMI: &bmi},
	})

	require.NotNil(t, with.Components.ContextNorm)
	assert.InDelta(t, 1.0, *with.Components.ContextNorm, 1e-9)
	assert.InDelta(t, 1.15, with.Components.ContextMultiplier, 1e-9)
	assert.Equal(t, 1.0, without.Components.ContextMultiplier)
	assert.Greater(t, with.WeightsUsed.Context, 0.0)
	assert.InDelta(t, 1.0, with.WeightsUsed.Sum(), 0.02)
}

func TestComputeScoreAlwaysInRange(t *testing.T) {
	extremes := [][]float64{
		repeat(40, 7), repeat(120, 7), repeat(0, 7), repeat(50000, 7), repeat(-5, 7),
	}
	for _, vals := range extremes {
		res := Compute(Input{
			Current: week(testEnd, 7, vals, vals, vals, vals),
			Primary: steadyHistory(primaryEnd, 28),
		})
		if res.Score7d == nil {
			continue
		}
		assert.GreaterOrEqual(t, *res.Score7d, 0)
		assert.LessOrEqual(t, *res.Score7d, 100)
		assert.GreaterOrEqual(t, res.Components.Strain, 0.0)
		assert.LessOrEqual(t, res.Components.Strain, 1.0)
	}
}

func TestComputeMissingBaselinePenalty(t *testing.T) {
	// RHR and steps have history; sleep does not.
	nan := math.NaN()
	history := week(primaryEnd, 28, repeat(62, 28), repeat(6000, 28), repeat(nan, 28), nil)
	res := Compute(Input{Current: sampleWeek(), Primary: history})

	require.Equal(t, ModeBaselineRelative, res.Mode)
	assert.False(t, res.UsedBaseline.Sleep)

	absolute := Compute(Input{Current: sampleWeek()})
	require.NotNil(t, res.Components.SleepBad)
	require.NotNil(t, absolute.Components.SleepBad)
	assert.InDelta(t, *absolute.Components.SleepBad*MissingBaselinePenalty, *res.Components.SleepBad, 1e-9)
}

func TestRelabelSmoothing(t *testing.T) {
	res := Compute(Input{Current: sampleWeek()})
	require.Equal(t, ConfidenceMedium, res.Confidence)
	assert.Equal(t, ReasonBuildingHistory, res.UXReason)

	res.Relabel(true)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, ReasonCompleteWeek, res.UXReason)
}

func TestComputeAbsoluteDriverDirections(t *testing.T) {
	res := Compute(Input{Current: week(testEnd, 7, repeat(60, 7), repeat(11000, 7), repeat(7.5, 7), repeat(65, 7))})
	require.Equal(t, ModeAbsoluteFallback, res.Mode)

	got := make(map[models.MetricType]Direction)
	for _, d := range res.Drivers {
		got[d.Metric] = d.Direction
	}
	assert.Equal(t, DirectionDown, got[models.MetricRestingHR])
	assert.Equal(t, DirectionUp, got[models.MetricSteps])
	assert.Equal(t, DirectionUp, got[models.MetricHRV])
}

func TestComputeDiagnosticSlicesNeverNull(t *testing.T) {
	tests := []struct {
		name    string
		records []*models.DailyMetricRecord
	}{
		{"no score", nil},
		{"full week", sampleWeek()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(Input{Current: tt.records})
			assert.NotNil(t, res.Excluded)
			assert.NotNil(t, res.Drivers)

			raw, err := json.Marshal(res)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), `"excluded":null`)
			assert.NotContains(t, string(raw), `"drivers":null`)
		})
	}
}
