package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"interest-insights-system/models"
)

// CohortStatsMaintainer rebuilds the stored distribution for one cohort key
// from the opted-in roster. Each skill-level row is upserted independently,
// so reruns with unchanged data rewrite identical rows.
type CohortStatsMaintainer struct {
	Roster CohortRoster
	Stats  CohortStatsStore
}

func NewCohortStatsMaintainer(roster CohortRoster, stats CohortStatsStore) *CohortStatsMaintainer {
	return &CohortStatsMaintainer{Roster: roster, Stats: stats}
}

// Recompute scans opted-in members of the cohort, groups them by skill level
// and writes one CohortStats row per level present. A cohort with zero
// opted-in members writes nothing — "no rows" means "no data yet", which is
// distinct from "zero users at a level".
//
// Each row stores the share of the cohort strictly below its level,
// unclamped. That is raw distribution metadata; the clamped query-time
// percentile in CalculatePercentile is computed fresh from user counts.
func (m *CohortStatsMaintainer) Recompute(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) error {
	counts, err := m.Roster.LevelCounts(band, categorySlug, intent)
	if err != nil {
		return fmt.Errorf("failed to load cohort histogram for %s/%s/%s: %w", band, categorySlug, intent, err)
	}

	total := 0
	for _, bucket := range counts {
		total += bucket.Count
	}
	if total == 0 {
		return nil
	}

	now := time.Now()
	cumulative := 0
	for _, bucket := range counts {
		percentile := int(math.Round(float64(cumulative) / float64(total) * 100))
		entry := &models.CohortStats{
			AgeRangeMin:     band.Min,
			AgeRangeMax:     band.Max,
			CategorySlug:    categorySlug,
			IntentLevel:     intent,
			SkillLevel:      bucket.Level,
			UserCount:       bucket.Count,
			Percentile:      percentile,
			TotalCohortSize: total,
			UpdatedAt:       now,
		}
		if err := m.Stats.Upsert(entry); err != nil {
			return fmt.Errorf("failed to upsert cohort stats for %s/%s/%s level %d: %w",
				band, categorySlug, intent, bucket.Level, err)
		}
		cumulative += bucket.Count
	}

	log.Printf("📊 [COHORT] Recomputed %s/%s/%s: %d level(s), %d member(s)",
		band, categorySlug, intent, len(counts), total)
	return nil
}
