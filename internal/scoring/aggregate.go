// ABOUTME: Weekly aggregation of one metric's daily readings.
// ABOUTME: Median for RHR, steps and HRV; mean for sleep; all after winsorization.
package scoring

import (
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/stats"
)

// WeeklyAggregate is the winsorized summary of a metric over the current week.
type WeeklyAggregate struct {
	Value     *float64
	Std       *float64
	ValidDays int
}

// Aggregate summarizes a week of readings for mt. Value is nil when the
// metric has fewer than MinMetricDays valid days.
func Aggregate(mt models.MetricType, readings []*float64) WeeklyAggregate {
	valid := stats.FilterValid(readings)
	agg := WeeklyAggregate{ValidDays: len(valid)}
	if len(valid) < MinMetricDays {
		return agg
	}

	w := stats.Winsorize(valid, stats.DefaultWinsorizeMin)
	var v float64
	if mt == models.MetricSleepHours {
		v, _ = stats.Mean(w)
		sd, _ := stats.StdDev(w)
		agg.Std = &sd
	} else {
		v, _ = stats.Median(w)
	}
	agg.Value = &v
	return agg
}

// Series extracts one metric's readings from a window of daily records.
func Series(records []*models.DailyMetricRecord, mt models.MetricType) []*float64 {
	out := make([]*float64, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, r.Value(mt))
	}
	return out
}
