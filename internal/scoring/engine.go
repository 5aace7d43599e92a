// ABOUTME: Pure weekly scoring pipeline from raw daily windows to a result.
// ABOUTME: Stateless and side-effect free; safe to call concurrently.
package scoring

import (
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/stats"
)

// Input is one week's worth of scoring input for one user.
type Input struct {
	// Current is the 7-day window being scored.
	Current []*models.DailyMetricRecord
	// Primary is the 28 days immediately before Current.
	Primary []*models.DailyMetricRecord
	// Fallback is the 28 days before Primary.
	Fallback          []*models.DailyMetricRecord
	Demographics      *models.Demographics
	PriorWeeklyScores int
}

// Baselines holds the selected baseline per metric.
type Baselines struct {
	RHR   *BaselineStats `json:"rhr"`
	Steps *BaselineStats `json:"steps"`
	Sleep *BaselineStats `json:"sleep"`
	HRV   *BaselineStats `json:"hrv"`
}

func (b *Baselines) set(mt models.MetricType, s *BaselineStats) {
	switch mt {
	case models.MetricRestingHR:
		b.RHR = s
	case models.MetricSteps:
		b.Steps = s
	case models.MetricSleepHours:
		b.Sleep = s
	case models.MetricHRV:
		b.HRV = s
	}
}

// For returns the baseline of metric mt.
func (b Baselines) For(mt models.MetricType) *BaselineStats {
	switch mt {
	case models.MetricRestingHR:
		return b.RHR
	case models.MetricSteps:
		return b.Steps
	case models.MetricSleepHours:
		return b.Sleep
	case models.MetricHRV:
		return b.HRV
	}
	return nil
}

// UsedBaseline records which metrics were scored against a baseline.
type UsedBaseline struct {
	RHR   bool `json:"rhr"`
	Steps bool `json:"steps"`
	Sleep bool `json:"sleep"`
	HRV   bool `json:"hrv"`
}

func (u *UsedBaseline) set(mt models.MetricType, v bool) {
	switch mt {
	case models.MetricRestingHR:
		u.RHR = v
	case models.MetricSteps:
		u.Steps = v
	case models.MetricSleepHours:
		u.Sleep = v
	case models.MetricHRV:
		u.HRV = v
	}
}

// Result is the full diagnostic outcome of scoring one week.
type Result struct {
	Score7d      *int       `json:"score7d"`
	RawScore     *int       `json:"rawScore"`
	ScoreClamped bool       `json:"scoreClamped"`
	ScoreLevel   ScoreLevel `json:"scoreLevel"`
	Mode         Mode       `json:"mode"`
	Confidence   Confidence `json:"confidence"`
	UXReason     UXReason   `json:"uxReason"`

	WeeklyRHR   *float64 `json:"weeklyRHR"`
	WeeklySteps *float64 `json:"weeklySteps"`
	WeeklySleep *float64 `json:"weeklySleep"`
	WeeklyHRV   *float64 `json:"weeklyHRV"`
	SleepStd    *float64 `json:"sleepStd"`

	ValidDays            ValidDays        `json:"validDays"`
	Baselines            Baselines        `json:"baselines"`
	UsedBaseline         UsedBaseline     `json:"usedBaseline"`
	Components           ComponentBadness `json:"components"`
	WeightsUsed          Weights          `json:"weightsUsed"`
	Excluded             []Exclusion      `json:"excluded"`
	AtypicalActivityWeek bool             `json:"atypicalActivityWeek"`
	ZSteps               *float64         `json:"zSteps"`
	Drivers              []Driver         `json:"drivers"`
}

// Relabel recomputes confidence once smoothing availability is known.
func (r *Result) Relabel(smoothingAvailable bool) {
	r.Confidence, r.UXReason = LabelConfidence(ConfidenceInput{
		Level:              r.ScoreLevel,
		Days:               r.ValidDays,
		Atypical:           r.AtypicalActivityWeek,
		SmoothingAvailable: smoothingAvailable,
	})
}

// Compute scores one week. Insufficient data yields a result with a nil
// score rather than an error.
func Compute(in Input) *Result {
	res := &Result{Mode: ModeNone, Excluded: []Exclusion{}, Drivers: []Driver{}}

	aggs := make(map[models.MetricType]WeeklyAggregate, len(models.AllMetricTypes))
	for _, mt := range models.AllMetricTypes {
		agg := Aggregate(mt, Series(in.Current, mt))
		aggs[mt] = agg

		primary := stats.FilterValid(Series(in.Primary, mt))
		fallback := stats.FilterValid(Series(in.Fallback, mt))
		res.Baselines.set(mt, SelectBaseline(primary, fallback))
	}
	res.ValidDays = ValidDays{
		RHR:   aggs[models.MetricRestingHR].ValidDays,
		Steps: aggs[models.MetricSteps].ValidDays,
		Sleep: aggs[models.MetricSleepHours].ValidDays,
		HRV:   aggs[models.MetricHRV].ValidDays,
	}
	res.WeeklyRHR = aggs[models.MetricRestingHR].Value
	res.WeeklySteps = aggs[models.MetricSteps].Value
	res.WeeklySleep = aggs[models.MetricSleepHours].Value
	res.WeeklyHRV = aggs[models.MetricHRV].Value
	res.SleepStd = aggs[models.MetricSleepHours].Std

	coreBaselines := 0
	for _, mt := range models.CoreMetricTypes {
		if res.Baselines.For(mt) != nil {
			coreBaselines++
		}
	}

	res.ScoreLevel = Classify(Sufficiency{
		CoreDays:          res.ValidDays.Core(),
		CoreBaselines:     coreBaselines,
		PriorWeeklyScores: in.PriorWeeklyScores,
	})
	res.Relabel(false)
	if !res.ScoreLevel.HasScore() {
		return res
	}
	res.Mode = res.ScoreLevel.Mode(coreBaselines)

	activity := DetectAtypical(res.WeeklySteps, res.Baselines.Steps)
	res.AtypicalActivityWeek = activity.Atypical
	res.ZSteps = activity.ZSteps

	var comps ComponentBadness
	for _, mt := range models.AllMetricTypes {
		agg := aggs[mt]
		if agg.Value == nil {
			continue
		}
		baseline := res.Baselines.For(mt)
		bad, used := MetricBadness(mt, agg, baseline, res.Mode)
		if mt == models.MetricSteps && activity.Atypical {
			bad = SaturateStepsBadness(bad)
		}
		b := bad
		switch mt {
		case models.MetricRestingHR:
			comps.RHRBad = &b
		case models.MetricSteps:
			comps.StepsBad = &b
		case models.MetricSleepHours:
			comps.SleepBad = &b
		case models.MetricHRV:
			comps.HRVBad = &b
		}
		res.UsedBaseline.set(mt, used)
		res.Drivers = append(res.Drivers, Driver{
			Metric:    mt,
			Badness:   bad,
			Direction: direction(mt, agg, baseline, used),
		})
	}
	comps.ContextNorm = ContextNorm(in.Demographics)

	res.WeightsUsed, res.Excluded = AllocateWeights(res.ValidDays, in.Demographics.HasContext(), activity.Atypical)

	c := Compose(res.ScoreLevel, res.WeightsUsed, comps)
	res.Components = c.Components
	res.Score7d = &c.Score
	res.RawScore = &c.RawScore
	res.ScoreClamped = c.Clamped
	res.Relabel(false)
	return res
}
