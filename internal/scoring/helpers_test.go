// ABOUTME: Shared builders for scoring tests.
// ABOUTME: Produce daily record windows from per-metric value slices.
package scoring

import (
	"math"
	"time"

	"github.com/harperreed/wellness/internal/models"
)

var testEnd = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

// week builds len(values) consecutive days ending at end. A nil slice leaves
// that metric absent; NaN entries mark a missing day.
func week(end time.Time, n int, rhr, steps, sleep, hrv []float64) []*models.DailyMetricRecord {
	out := make([]*models.DailyMetricRecord, 0, n)
	for i := 0; i < n; i++ {
		r := models.NewDailyMetricRecord("u1", end.AddDate(0, 0, i-n+1))
		set := func(mt models.MetricType, vals []float64) {
			if i < len(vals) && !math.IsNaN(vals[i]) {
				r.WithValue(mt, vals[i])
			}
		}
		set(models.MetricRestingHR, rhr)
		set(models.MetricSteps, steps)
		set(models.MetricSleepHours, sleep)
		set(models.MetricHRV, hrv)
		out = append(out, r)
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

var (
	sampleRHR   = []float64{62, 60, 63, 61, 62, 60, 64}
	sampleSteps = []float64{8500, 9000, 7500, 8000, 9500, 10000, 8200}
	sampleSleep = []float64{7.5, 7.2, 7.8, 7.0, 7.5, 7.3, 7.6}
	sampleHRV   = []float64{55, 52, 58, 50, 54, 53, 56}
)

func steadyHistory(end time.Time, n int) []*models.DailyMetricRecord {
	return week(end, n, repeat(62, n), repeat(6000, n), repeat(7.4, n), repeat(55, n))
}

func f(v float64) *float64 { return &v }
