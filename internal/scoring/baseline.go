// ABOUTME: Personal baseline selection with a primary and an older fallback window.
// ABOUTME: Baselines are robust (median, IQR) pairs over winsorized history.
package scoring

import (
	"github.com/harperreed/wellness/internal/stats"
)

// MinBaselineDays is the valid-day count a window needs to yield a baseline.
const MinBaselineDays = 14

// BaselineSource records which history window produced a baseline.
type BaselineSource string

const (
	BaselinePrimary  BaselineSource = "primary"
	BaselineFallback BaselineSource = "fallback"
)

// BaselineStats is a user's robust historical center and spread for one metric.
type BaselineStats struct {
	Median    float64        `json:"median"`
	IQR       float64        `json:"iqr"`
	Source    BaselineSource `json:"source"`
	ValidDays int            `json:"validDays"`
}

// SelectBaseline tries the primary window, then the fallback window.
// It returns nil when neither has enough valid days.
func SelectBaseline(primary, fallback []float64) *BaselineStats {
	b, ok := FirstOf[*BaselineStats](
		windowBaseline(primary, BaselinePrimary),
		windowBaseline(fallback, BaselineFallback),
	)
	if !ok {
		return nil
	}
	return b
}

func windowBaseline(values []float64, source BaselineSource) Strategy[*BaselineStats] {
	return func() (*BaselineStats, bool) {
		w := stats.Winsorize(values, stats.DefaultWinsorizeMin)
		if len(w) < MinBaselineDays {
			return nil, false
		}
		median, _ := stats.Median(w)
		bounds, _ := stats.IQRBounds(w)
		return &BaselineStats{
			Median:    median,
			IQR:       bounds.IQR,
			Source:    source,
			ValidDays: len(w),
		}, true
	}
}
