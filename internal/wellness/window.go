// ABOUTME: Date windows for one scored week and its two baseline lookbacks.
// ABOUTME: All windows are inclusive calendar days anchored on the week's last day.
package wellness

import (
	"time"

	"github.com/harperreed/wellness/internal/models"
)

const (
	currentDays  = 7
	baselineDays = 28
)

// Window is an inclusive range of calendar days.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	d := models.Day(day)
	return !d.Before(w.From) && !d.After(w.To)
}

// Windows are the three read ranges for scoring the 7 days ending on End.
type Windows struct {
	Current   Window
	Primary   Window
	Fallback  Window
	WeekStart time.Time
}

// WindowsEnding lays out the current week and its baselines for end.
// Primary is the 28 days before the current week and Fallback the 28 before that.
func WindowsEnding(end time.Time) Windows {
	end = models.Day(end)
	curFrom := end.AddDate(0, 0, -(currentDays - 1))
	primTo := curFrom.AddDate(0, 0, -1)
	primFrom := primTo.AddDate(0, 0, -(baselineDays - 1))
	fbTo := primFrom.AddDate(0, 0, -1)
	fbFrom := fbTo.AddDate(0, 0, -(baselineDays - 1))
	return Windows{
		Current:   Window{From: curFrom, To: end},
		Primary:   Window{From: primFrom, To: primTo},
		Fallback:  Window{From: fbFrom, To: fbTo},
		WeekStart: models.ISOWeekStart(end),
	}
}

// Span is the full read range covering all three windows.
func (w Windows) Span() Window {
	return Window{From: w.Fallback.From, To: w.Current.To}
}

// Split partitions records into the current, primary and fallback windows.
// Records outside every window are dropped.
func (w Windows) Split(records []*models.DailyMetricRecord) (cur, prim, fb []*models.DailyMetricRecord) {
	for _, r := range records {
		switch {
		case w.Current.Contains(r.Date):
			cur = append(cur, r)
		case w.Primary.Contains(r.Date):
			prim = append(prim, r)
		case w.Fallback.Contains(r.Date):
			fb = append(fb, r)
		}
	}
	return cur, prim, fb
}

// CompletedWeekEnds returns the Sundays of the n ISO weeks that finished
// before the week containing now, oldest first.
func CompletedWeekEnds(now time.Time, n int) []time.Time {
	monday := models.ISOWeekStart(now)
	ends := make([]time.Time, 0, n)
	for k := n; k >= 1; k-- {
		ends = append(ends, monday.AddDate(0, 0, -7*k+6))
	}
	return ends
}
