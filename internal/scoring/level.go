// ABOUTME: Progressive score levels and the data-sufficiency classifier.
// ABOUTME: Level-specific clamping and scoring mode hang off the ScoreLevel tag.
package scoring

import (
	"fmt"
	"sort"
)

// ScoreLevel describes how much trust the current computation deserves.
// Levels are ordered: more data can only move the level up.
type ScoreLevel int

const (
	LevelNoScore ScoreLevel = iota
	LevelProvisional
	LevelStandard
	LevelCalibrated
)

var levelNames = map[ScoreLevel]string{
	LevelNoScore:     "no_score",
	LevelProvisional: "provisional",
	LevelStandard:    "standard",
	LevelCalibrated:  "calibrated",
}

func (l ScoreLevel) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("ScoreLevel(%d)", int(l))
}

// MarshalText renders the level by name.
func (l ScoreLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name.
func (l *ScoreLevel) UnmarshalText(b []byte) error {
	parsed, err := ParseScoreLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseScoreLevel parses a level name such as "standard".
func ParseScoreLevel(s string) (ScoreLevel, error) {
	for l, n := range levelNames {
		if n == s {
			return l, nil
		}
	}
	return LevelNoScore, fmt.Errorf("unknown score level: %q", s)
}

// HasScore reports whether the level produces a numeric score.
func (l ScoreLevel) HasScore() bool {
	return l != LevelNoScore
}

// ScoreBounds returns the displayable score range for the level.
// Provisional scores are held to a middle band.
func (l ScoreLevel) ScoreBounds() (lo, hi int) {
	if l == LevelProvisional {
		return 40, 90
	}
	return 0, 100
}

// Clamp bounds a raw score to the level's range.
func (l ScoreLevel) Clamp(raw int) int {
	lo, hi := l.ScoreBounds()
	if raw < lo {
		return lo
	}
	if raw > hi {
		return hi
	}
	return raw
}

// Mode selects how metrics are scored at this level.
func (l ScoreLevel) Mode(coreBaselines int) Mode {
	switch l {
	case LevelNoScore:
		return ModeNone
	case LevelProvisional:
		return ModeAbsoluteFallback
	}
	if coreBaselines >= MinCoreBaselines {
		return ModeBaselineRelative
	}
	return ModeAbsoluteFallback
}

// Mode is the scoring strategy for a week.
type Mode string

const (
	ModeNone             Mode = "none"
	ModeBaselineRelative Mode = "baseline_relative"
	ModeAbsoluteFallback Mode = "absolute_fallback"
)

const (
	// MinMetricDays is the valid-day floor for a metric to be scored at all.
	MinMetricDays = 3
	// MinTotalCoreDays is the floor across all core metrics combined.
	MinTotalCoreDays = 3
	// StandardMetricDays is the valid-day count two core metrics need for standard.
	StandardMetricDays = 5
	// MinCoreBaselines is how many core metrics need a baseline for baseline scoring.
	MinCoreBaselines = 2
	// MinPriorWeeklyScores is how many persisted weeks calibrated requires.
	MinPriorWeeklyScores = 2
)

// Sufficiency is the data-completeness input to the classifier.
type Sufficiency struct {
	// CoreDays holds valid-day counts for RHR, steps and sleep.
	CoreDays          [3]int
	CoreBaselines     int
	PriorWeeklyScores int
}

// Classify assigns the score level for the given data completeness.
func Classify(s Sufficiency) ScoreLevel {
	total := 0
	withMin := 0
	withStandard := 0
	for _, d := range s.CoreDays {
		total += d
		if d >= MinMetricDays {
			withMin++
		}
		if d >= StandardMetricDays {
			withStandard++
		}
	}

	if total < MinTotalCoreDays || withMin < 2 {
		return LevelNoScore
	}
	if s.CoreBaselines >= MinCoreBaselines && s.PriorWeeklyScores >= MinPriorWeeklyScores {
		return LevelCalibrated
	}

	sorted := append([]int(nil), s.CoreDays[:]...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	if withStandard >= 2 && sorted[2] >= MinMetricDays {
		return LevelStandard
	}
	return LevelProvisional
}
