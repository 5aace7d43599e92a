// ABOUTME: Score drivers and the legacy-shaped response payload.
// ABOUTME: Driver sentences are templated and filtered against a clinical-term denylist.
package scoring

import (
	"sort"
	"strings"

	"github.com/harperreed/wellness/internal/models"
)

// Direction says whether a metric sat above or below its reference point.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Driver is one metric's contribution to the week's strain.
type Driver struct {
	Metric    models.MetricType `json:"metric"`
	Badness   float64           `json:"badness"`
	Direction Direction         `json:"direction"`
}

// MaxDrivers is how many drivers the legacy payload carries.
const MaxDrivers = 3

// GenericDriverSentence replaces any sentence that trips the denylist.
const GenericDriverSentence = "One of your weekly signals moved away from your usual pattern."

var driverTemplates = map[models.MetricType]map[Direction]string{
	models.MetricRestingHR: {
		DirectionUp:   "Your resting heart rate ran higher than usual this week.",
		DirectionDown: "Your resting heart rate stayed at or below your usual level.",
	},
	models.MetricSteps: {
		DirectionUp:   "Your daily steps were well above your usual level.",
		DirectionDown: "Your daily steps came in below your usual level.",
	},
	models.MetricSleepHours: {
		DirectionUp:   "You slept longer than your usual pattern.",
		DirectionDown: "You slept less than your usual pattern.",
	},
	models.MetricHRV: {
		DirectionUp:   "Your heart-rate variability was higher than usual.",
		DirectionDown: "Your heart-rate variability was lower than usual.",
	},
}

// bannedTerms must never appear in user-facing driver text.
var bannedTerms = []string{
	"diagnos", "disease", "disorder", "illness", "syndrome", "condition",
	"arrhythmia", "afib", "fibrillation", "tachycardia", "bradycardia",
	"hypertension", "apnea", "insomnia", "depression", "infection",
	"medical", "medication", "prescri", "treatment", "symptom", "doctor",
}

// SanitizeDriver returns sentence, or the generic sentence if it contains a banned term.
func SanitizeDriver(sentence string) string {
	lower := strings.ToLower(sentence)
	for _, term := range bannedTerms {
		if strings.Contains(lower, term) {
			return GenericDriverSentence
		}
	}
	return sentence
}

// TopDrivers returns up to n drivers ordered by badness, ties kept in metric order.
func TopDrivers(drivers []Driver, n int) []Driver {
	out := append([]Driver(nil), drivers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Badness > out[j].Badness
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderDriver renders a driver as a sanitized sentence.
func RenderDriver(d Driver) string {
	tmpl, ok := driverTemplates[d.Metric][d.Direction]
	if !ok {
		return GenericDriverSentence
	}
	return SanitizeDriver(tmpl)
}

// LegacyPayload is the response shape older callers expect.
type LegacyPayload struct {
	Status     string   `json:"status"`
	Band       string   `json:"band,omitempty"`
	Confidence string   `json:"confidence"`
	Drivers    []string `json:"drivers"`
}

const (
	LegacyStatusOK           = "ok"
	LegacyStatusInsufficient = "insufficient_data"
)

// LegacyBand maps a wellness score onto the old strain band.
//
// The band names describe strain, not wellness, so the polarity is inverted:
// a high score is a "low" band. Downstream consumers depend on this.
func LegacyBand(score int) string {
	switch {
	case score >= 70:
		return "low"
	case score >= 40:
		return "medium"
	default:
		return "high"
	}
}

// Legacy maps a result onto the legacy payload.
func Legacy(r *Result) LegacyPayload {
	p := LegacyPayload{
		Status:     LegacyStatusInsufficient,
		Confidence: string(r.Confidence),
		Drivers:    []string{},
	}
	if r.Score7d == nil {
		return p
	}
	p.Status = LegacyStatusOK
	p.Band = LegacyBand(*r.Score7d)
	for _, d := range TopDrivers(r.Drivers, MaxDrivers) {
		p.Drivers = append(p.Drivers, RenderDriver(d))
	}
	return p
}
