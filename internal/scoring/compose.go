// ABOUTME: Combines weighted badness into strain and a 0-100 score.
// ABOUTME: Age and BMI scale strain through a bounded context multiplier.
package scoring

import (
	"math"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/stats"
)

const (
	ContextMultiplierScale = 0.15
	contextBMIShare        = 0.6
	contextAgeShare        = 0.4
	bmiLow, bmiHigh        = 22.0, 35.0
	ageLow, ageHigh        = 25.0, 65.0
)

// ComponentBadness is the per-component breakdown behind a score.
type ComponentBadness struct {
	RHRBad            *float64 `json:"rhrBad"`
	StepsBad          *float64 `json:"stepsBad"`
	SleepBad          *float64 `json:"sleepBad"`
	HRVBad            *float64 `json:"hrvBad"`
	ContextNorm       *float64 `json:"contextNorm"`
	WearableStrain    float64  `json:"wearableStrain"`
	ContextMultiplier float64  `json:"contextMultiplier"`
	Strain            float64  `json:"strain"`
}

// For returns the badness of metric mt.
func (c ComponentBadness) For(mt models.MetricType) *float64 {
	switch mt {
	case models.MetricRestingHR:
		return c.RHRBad
	case models.MetricSteps:
		return c.StepsBad
	case models.MetricSleepHours:
		return c.SleepBad
	case models.MetricHRV:
		return c.HRVBad
	}
	return nil
}

// ContextNorm normalizes BMI and age into [0,1]. It is nil when neither is known.
func ContextNorm(d *models.Demographics) *float64 {
	if d == nil {
		return nil
	}
	var bmiNorm, ageNorm *float64
	if bmi := d.EffectiveBMI(); bmi != nil {
		v := stats.Clamp01((*bmi - bmiLow) / (bmiHigh - bmiLow))
		bmiNorm = &v
	}
	if d.Age != nil {
		v := stats.Clamp01((*d.Age - ageLow) / (ageHigh - ageLow))
		ageNorm = &v
	}

	var norm float64
	switch {
	case bmiNorm != nil && ageNorm != nil:
		norm = contextBMIShare*(*bmiNorm) + contextAgeShare*(*ageNorm)
	case bmiNorm != nil:
		norm = *bmiNorm
	case ageNorm != nil:
		norm = *ageNorm
	default:
		return nil
	}
	return &norm
}

// Composition is the composer's output.
type Composition struct {
	Score      int
	RawScore   int
	Clamped    bool
	Components ComponentBadness
}

// Compose turns weighted badness into a level-clamped score. Context weight
// only dilutes the wearable share; context acts through the multiplier.
func Compose(level ScoreLevel, w Weights, c ComponentBadness) Composition {
	var strain float64
	for _, mt := range models.AllMetricTypes {
		if bad := c.For(mt); bad != nil {
			strain += w.For(mt) * *bad
		}
	}
	c.WearableStrain = strain
	c.ContextMultiplier = 1
	if c.ContextNorm != nil {
		c.ContextMultiplier = 1 + ContextMultiplierScale*(*c.ContextNorm)
	}
	c.Strain = stats.Clamp01(c.WearableStrain * c.ContextMultiplier)

	raw := int(math.Round(100 * (1 - c.Strain)))
	score := level.Clamp(raw)
	return Composition{
		Score:      score,
		RawScore:   raw,
		Clamped:    score != raw,
		Components: c,
	}
}
