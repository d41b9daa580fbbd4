package services

import (
	"math"

	"interest-insights-system/models"
)

// LevelCount is one bucket of a cohort's skill-level histogram.
type LevelCount struct {
	Level models.SkillLevel
	Count int
}

// Percentile clamp bounds: never report 0th or 100th percentile so the
// encouragement messaging stays non-degenerate at distribution edges.
const (
	minPercentile     = 1
	maxPercentile     = 99
	neutralPercentile = 50
)

// CalculatePercentile returns the percentile rank of level against the given
// histogram: the rounded share of the cohort strictly below it, clamped to
// [1,99]. An empty histogram yields the neutral 50.
func CalculatePercentile(level models.SkillLevel, histogram []LevelCount) int {
	total := 0
	below := 0
	for _, bucket := range histogram {
		total += bucket.Count
		if bucket.Level < level {
			below += bucket.Count
		}
	}
	if total == 0 {
		return neutralPercentile
	}

	percentile := int(math.Round(float64(below) / float64(total) * 100))
	if percentile < minPercentile {
		return minPercentile
	}
	if percentile > maxPercentile {
		return maxPercentile
	}
	return percentile
}
