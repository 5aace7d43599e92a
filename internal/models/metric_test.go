// ABOUTME: Tests for the daily record and date helpers.
// ABOUTME: Validates metric lookup, merging, and ISO week anchoring.
package models

import (
	"testing"
	"time"
)

func TestIsValidMetricType(t *testing.T) {
	for _, mt := range AllMetricTypes {
		if !IsValidMetricType(string(mt)) {
			t.Errorf("expected %s to be valid", mt)
		}
	}
	if IsValidMetricType("weight") {
		t.Error("expected weight to be invalid")
	}
}

func TestMetricUnitsComplete(t *testing.T) {
	for _, mt := range AllMetricTypes {
		if MetricUnits[mt] == "" {
			t.Errorf("missing unit for %s", mt)
		}
	}
}

func TestDailyRecordWithValue(t *testing.T) {
	r := NewDailyMetricRecord("u1", time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC))
	r.WithValue(MetricSteps, 8000).WithValue(MetricHRV, 50)

	if r.Date.Hour() != 0 {
		t.Errorf("expected date truncated to midnight, got %v", r.Date)
	}
	if r.Steps == nil || *r.Steps != 8000 {
		t.Errorf("Steps = %v, want 8000", r.Steps)
	}
	if r.RestingHeartRate != nil {
		t.Error("expected RestingHeartRate to stay absent")
	}
	if v := r.Value(MetricHRV); v == nil || *v != 50 {
		t.Errorf("Value(hrv) = %v, want 50", v)
	}
}

func TestDailyRecordMerge(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	a := NewDailyMetricRecord("u1", day).WithValue(MetricSteps, 8000)
	b := NewDailyMetricRecord("u1", day).WithValue(MetricSleepHours, 7.5)

	a.Merge(b)
	if a.Steps == nil || a.SleepHours == nil {
		t.Fatalf("merge lost values: %+v", a)
	}
	if *a.SleepHours != 7.5 {
		t.Errorf("SleepHours = %v, want 7.5", *a.SleepHours)
	}
}

func TestISOWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-03-03", "2025-03-03"}, // Monday
		{"2025-03-05", "2025-03-03"},
		{"2025-03-09", "2025-03-03"}, // Sunday
		{"2025-03-10", "2025-03-10"},
	}
	for _, tt := range tests {
		d, err := ParseDay(tt.day)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", tt.day, err)
		}
		got := ISOWeekStart(d).Format(DateLayout)
		if got != tt.want {
			t.Errorf("ISOWeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestEffectiveBMI(t *testing.T) {
	h, w := 180.0, 81.0
	d := &Demographics{HeightCm: &h, WeightKg: &w}
	bmi := d.EffectiveBMI()
	if bmi == nil {
		t.Fatal("expected derived BMI")
	}
	if *bmi < 24.9 || *bmi > 25.1 {
		t.Errorf("BMI = %v, want ~25", *bmi)
	}

	direct := 30.0
	d.BMI = &direct
	if got := d.EffectiveBMI(); *got != 30 {
		t.Errorf("direct BMI should win, got %v", *got)
	}

	var none *Demographics
	if none.HasContext() {
		t.Error("nil demographics should have no context")
	}
}
