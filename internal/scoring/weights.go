// ABOUTME: Weight allocation across metrics with exclusion and renormalization.
// ABOUTME: Atypical weeks discount the steps weight before renormalizing.
package scoring

import "github.com/harperreed/wellness/internal/models"

const (
	BaseWeightRHR     = 0.35
	BaseWeightSteps   = 0.30
	BaseWeightSleep   = 0.15
	BaseWeightHRV     = 0.10
	BaseWeightContext = 0.10
)

// ExclusionInsufficientDays marks a metric with too few valid days.
const ExclusionInsufficientDays = "insufficient_days"

// Weights are the renormalized per-component weights for a week.
type Weights struct {
	RHR     float64 `json:"wRHR"`
	Steps   float64 `json:"wSteps"`
	Sleep   float64 `json:"wSleep"`
	HRV     float64 `json:"wHRV"`
	Context float64 `json:"wContext"`
}

// Sum adds all component weights.
func (w Weights) Sum() float64 {
	return w.RHR + w.Steps + w.Sleep + w.HRV + w.Context
}

// For returns the weight of metric mt.
func (w Weights) For(mt models.MetricType) float64 {
	switch mt {
	case models.MetricRestingHR:
		return w.RHR
	case models.MetricSteps:
		return w.Steps
	case models.MetricSleepHours:
		return w.Sleep
	case models.MetricHRV:
		return w.HRV
	}
	return 0
}

// Exclusion records a metric left out of the score.
type Exclusion struct {
	Metric models.MetricType `json:"metric"`
	Reason string            `json:"reason"`
}

// ValidDays holds the current week's valid-day count per metric.
type ValidDays struct {
	RHR   int `json:"rhr"`
	Steps int `json:"steps"`
	Sleep int `json:"sleep"`
	HRV   int `json:"hrv"`
}

// For returns the valid-day count of metric mt.
func (d ValidDays) For(mt models.MetricType) int {
	switch mt {
	case models.MetricRestingHR:
		return d.RHR
	case models.MetricSteps:
		return d.Steps
	case models.MetricSleepHours:
		return d.Sleep
	case models.MetricHRV:
		return d.HRV
	}
	return 0
}

// Core returns the RHR, steps and sleep counts in that order.
func (d ValidDays) Core() [3]int {
	return [3]int{d.RHR, d.Steps, d.Sleep}
}

// AllocateWeights assigns base weights, drops metrics without enough days,
// applies the atypical steps discount and renormalizes to 1.
func AllocateWeights(days ValidDays, hasContext, atypical bool) (Weights, []Exclusion) {
	var w Weights
	excluded := []Exclusion{}

	base := []struct {
		mt     models.MetricType
		weight float64
		dst    *float64
	}{
		{models.MetricRestingHR, BaseWeightRHR, &w.RHR},
		{models.MetricSteps, BaseWeightSteps, &w.Steps},
		{models.MetricSleepHours, BaseWeightSleep, &w.Sleep},
		{models.MetricHRV, BaseWeightHRV, &w.HRV},
	}
	for _, b := range base {
		if days.For(b.mt) < MinMetricDays {
			excluded = append(excluded, Exclusion{Metric: b.mt, Reason: ExclusionInsufficientDays})
			continue
		}
		*b.dst = b.weight
	}
	if hasContext {
		w.Context = BaseWeightContext
	}
	if atypical {
		w.Steps *= AtypicalStepsWeightFactor
	}

	total := w.Sum()
	if total <= 0 {
		// Unreachable once no_score returns early.
		return Weights{RHR: 0.4, Steps: 0.35, Sleep: 0.25}, excluded
	}
	return Weights{
		RHR:     w.RHR / total,
		Steps:   w.Steps / total,
		Sleep:   w.Sleep / total,
		HRV:     w.HRV / total,
		Context: w.Context / total,
	}, excluded
}
