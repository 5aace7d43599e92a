// ABOUTME: Per-metric badness in [0,1], baseline-relative or absolute-range.
// ABOUTME: A metric lacking its own baseline in baseline mode is discounted.
package scoring

import (
	"math"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/stats"
)

const (
	LogisticK        = 1.2
	LogisticMidpoint = 0.0
	// MinBadnessIQR floors the baseline spread used as the z denominator.
	MinBadnessIQR = 1.0
	// MissingBaselinePenalty scales absolute badness for a metric that lacks
	// a baseline while the week is scored baseline-relative.
	MissingBaselinePenalty = 0.85

	SleepDurationShare   = 0.7
	SleepRegularityShare = 0.3
	SleepStdScale        = 1.5
)

// absoluteRange describes a fixed physiological range for fallback scoring.
type absoluteRange struct {
	lo, hi float64
	// higherIsWorse is false when larger values are better.
	higherIsWorse bool
}

var absoluteRanges = map[models.MetricType]absoluteRange{
	models.MetricRestingHR: {lo: 50, hi: 85, higherIsWorse: true},
	models.MetricSteps:     {lo: 3000, hi: 12000},
	models.MetricHRV:       {lo: 20, hi: 80},
}

const (
	sleepIdealHours = 7.5
	sleepToleranceH = 2.5
)

// MetricBadness scores one metric's weekly aggregate. It reports whether a
// baseline was used.
func MetricBadness(mt models.MetricType, agg WeeklyAggregate, baseline *BaselineStats, mode Mode) (float64, bool) {
	if agg.Value == nil {
		return 0, false
	}
	type scored struct {
		bad          float64
		usedBaseline bool
	}

	relative := func() (scored, bool) {
		if mode != ModeBaselineRelative || baseline == nil {
			return scored{}, false
		}
		return scored{relativeBadness(mt, agg, baseline), true}, true
	}
	absolute := func() (scored, bool) {
		bad := absoluteBadness(mt, agg)
		if mode == ModeBaselineRelative {
			bad *= MissingBaselinePenalty
		}
		return scored{bad, false}, true
	}

	s, _ := FirstOf[scored](relative, absolute)
	return s.bad, s.usedBaseline
}

func relativeBadness(mt models.MetricType, agg WeeklyAggregate, b *BaselineStats) float64 {
	spread := math.Max(b.IQR, MinBadnessIQR)
	diff := *agg.Value - b.Median

	switch mt {
	case models.MetricSleepHours:
		duration := stats.Clamp01(stats.Logistic(math.Abs(diff)/spread, LogisticK, LogisticMidpoint))
		return blendSleep(duration, agg.Std)
	case models.MetricSteps, models.MetricHRV:
		diff = -diff
	}
	return stats.Clamp01(stats.Logistic(diff/spread, LogisticK, LogisticMidpoint))
}

func absoluteBadness(mt models.MetricType, agg WeeklyAggregate) float64 {
	v := *agg.Value
	if mt == models.MetricSleepHours {
		duration := stats.Clamp01(math.Abs(v-sleepIdealHours) / sleepToleranceH)
		return blendSleep(duration, agg.Std)
	}
	r := absoluteRanges[mt]
	frac := (v - r.lo) / (r.hi - r.lo)
	if !r.higherIsWorse {
		frac = 1 - frac
	}
	return stats.Clamp01(frac)
}

func blendSleep(duration float64, std *float64) float64 {
	regularity := 0.0
	if std != nil {
		regularity = stats.Clamp01(*std / SleepStdScale)
	}
	return SleepDurationShare*duration + SleepRegularityShare*regularity
}

// direction reports whether the aggregate sits above the reference point:
// the personal median when a baseline was used, otherwise the middle of the
// metric's absolute range.
func direction(mt models.MetricType, agg WeeklyAggregate, baseline *BaselineStats, usedBaseline bool) Direction {
	var ref float64
	switch {
	case usedBaseline && baseline != nil:
		ref = baseline.Median
	case mt == models.MetricSleepHours:
		ref = sleepIdealHours
	default:
		r := absoluteRanges[mt]
		ref = (r.lo + r.hi) / 2
	}
	if *agg.Value > ref {
		return DirectionUp
	}
	return DirectionDown
}
