// ABOUTME: Daily biometric record model and the MetricType enum.
// ABOUTME: Covers the four wearable signals the wellness score consumes.
package models

import (
	"fmt"
	"time"
)

// MetricType identifies one of the daily wearable signals.
type MetricType string

const (
	MetricRestingHR  MetricType = "resting_hr"
	MetricSteps      MetricType = "steps"
	MetricSleepHours MetricType = "sleep_hours"
	MetricHRV        MetricType = "hrv"
)

// MetricUnits maps metric types to their display units.
var MetricUnits = map[MetricType]string{
	MetricRestingHR:  "bpm",
	MetricSteps:      "steps",
	MetricSleepHours: "hours",
	MetricHRV:        "ms",
}

// AllMetricTypes lists metrics in scoring order.
var AllMetricTypes = []MetricType{
	MetricRestingHR, MetricSteps, MetricSleepHours, MetricHRV,
}

// CoreMetricTypes are the metrics that gate the data-sufficiency ladder.
var CoreMetricTypes = []MetricType{
	MetricRestingHR, MetricSteps, MetricSleepHours,
}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// DateLayout is the storage and wire format for calendar days.
const DateLayout = "2006-01-02"

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date as a UTC day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// ISOWeekStart returns the Monday of the ISO week containing day.
func ISOWeekStart(day time.Time) time.Time {
	d := Day(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// DailyMetricRecord is one calendar day of wearable data for one user.
// Absent readings are nil, never zero.
type DailyMetricRecord struct {
	UserID           string    `json:"user_id" yaml:"user_id"`
	Date             time.Time `json:"date" yaml:"date"`
	RestingHeartRate *float64  `json:"resting_heart_rate,omitempty" yaml:"resting_heart_rate,omitempty"`
	Steps            *float64  `json:"steps,omitempty" yaml:"steps,omitempty"`
	SleepHours       *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	HRV              *float64  `json:"hrv,omitempty" yaml:"hrv,omitempty"`
}

// NewDailyMetricRecord creates an empty record for userID on the given day.
func NewDailyMetricRecord(userID string, day time.Time) *DailyMetricRecord {
	return &DailyMetricRecord{UserID: userID, Date: Day(day)}
}

// Value returns the reading for metric type mt.
func (r *DailyMetricRecord) Value(mt MetricType) *float64 {
	switch mt {
	case MetricRestingHR:
		return r.RestingHeartRate
	case MetricSteps:
		return r.Steps
	case MetricSleepHours:
		return r.SleepHours
	case MetricHRV:
		return r.HRV
	}
	return nil
}

// WithValue sets the reading for metric type mt.
func (r *DailyMetricRecord) WithValue(mt MetricType, v float64) *DailyMetricRecord {
	switch mt {
	case MetricRestingHR:
		r.RestingHeartRate = &v
	case MetricSteps:
		r.Steps = &v
	case MetricSleepHours:
		r.SleepHours = &v
	case MetricHRV:
		r.HRV = &v
	}
	return r
}

// Merge copies every present reading from other onto r.
func (r *DailyMetricRecord) Merge(other *DailyMetricRecord) {
	for _, mt := range AllMetricTypes {
		if v := other.Value(mt); v != nil {
			r.WithValue(mt, *v)
		}
	}
}
