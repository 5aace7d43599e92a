// ABOUTME: Atypical-activity detection from step volume against the user's baseline.
// ABOUTME: Atypical weeks get saturated steps badness and a discounted steps weight.
package scoring

import (
	"math"

	"github.com/harperreed/wellness/internal/stats"
)

const (
	AtypicalZThreshold = 2.0
	// AtypicalMinIQR floors the steps spread so flat histories don't explode z.
	AtypicalMinIQR            = 1000.0
	AtypicalStepsWeightFactor = 0.7
	StepsSaturationPoint      = 0.8
)

// Activity is the atypical-activity verdict for a week.
type Activity struct {
	ZSteps   *float64
	Atypical bool
}

// DetectAtypical compares weekly steps with the steps baseline.
func DetectAtypical(weeklySteps *float64, baseline *BaselineStats) Activity {
	if weeklySteps == nil || baseline == nil {
		return Activity{}
	}
	z := (*weeklySteps - baseline.Median) / math.Max(baseline.IQR, AtypicalMinIQR)
	return Activity{ZSteps: &z, Atypical: math.Abs(z) > AtypicalZThreshold}
}

// SaturateStepsBadness pulls badness halfway toward its saturated value.
func SaturateStepsBadness(bad float64) float64 {
	return 0.5*bad + 0.5*stats.Clamp01(bad/StepsSaturationPoint)
}
