// ABOUTME: Qualitative confidence label and UX reason for a computed week.
// ABOUTME: Derived from score level, per-metric completeness, and smoothing availability.
package scoring

import "github.com/harperreed/wellness/internal/models"

// Confidence is the qualitative trust label shown with a score.
type Confidence string

const (
	ConfidenceHigh             Confidence = "high"
	ConfidenceMedium           Confidence = "medium"
	ConfidenceLow              Confidence = "low"
	ConfidenceInsufficientData Confidence = "insufficient_data"
)

// UXReason explains the confidence label to the client.
type UXReason string

const (
	ReasonNotEnoughData    UXReason = "not_enough_wearable_data"
	ReasonPartialWeek      UXReason = "partial_week"
	ReasonAtypicalActivity UXReason = "atypical_activity_week"
	ReasonSparseWeek       UXReason = "sparse_week"
	ReasonBuildingHistory  UXReason = "building_history"
	ReasonSomeGaps         UXReason = "some_gaps"
	ReasonCompleteWeek     UXReason = "complete_week"
)

const (
	highConfidenceCoreDays = 6
	highConfidenceHRVDays  = 4
	sparseMetricDays       = 4
)

// ConfidenceInput carries everything the labeler looks at.
type ConfidenceInput struct {
	Level              ScoreLevel
	Days               ValidDays
	Atypical           bool
	SmoothingAvailable bool
}

// LabelConfidence derives the confidence label and UX reason.
func LabelConfidence(in ConfidenceInput) (Confidence, UXReason) {
	switch in.Level {
	case LevelNoScore:
		return ConfidenceInsufficientData, ReasonNotEnoughData
	case LevelProvisional:
		return ConfidenceLow, ReasonPartialWeek
	}

	used, full, sparse := 0, 0, 0
	for _, mt := range models.CoreMetricTypes {
		d := in.Days.For(mt)
		if d < MinMetricDays {
			continue
		}
		used++
		if d >= highConfidenceCoreDays {
			full++
		}
		if d <= sparseMetricDays {
			sparse++
		}
	}
	hrvOK := in.Days.HRV < MinMetricDays || in.Days.HRV >= highConfidenceHRVDays

	if used > 0 && full == used && hrvOK && !in.Atypical && in.SmoothingAvailable {
		return ConfidenceHigh, ReasonCompleteWeek
	}
	if in.Atypical {
		return ConfidenceLow, ReasonAtypicalActivity
	}
	if sparse >= 2 {
		return ConfidenceLow, ReasonSparseWeek
	}
	if !in.SmoothingAvailable {
		return ConfidenceMedium, ReasonBuildingHistory
	}
	return ConfidenceMedium, ReasonSomeGaps
}
