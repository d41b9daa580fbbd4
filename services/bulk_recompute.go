package services

import (
	"fmt"
	"log"
)

// RecomputeSummary reports one BulkRecomputeJob run.
type RecomputeSummary struct {
	Cohorts    int `json:"cohorts"`
	Recomputed int `json:"recomputed"`
	Failed     int `json:"failed"`
}

// BulkRecomputeJob refreshes the stats of every cohort that currently has at
// least one opted-in member. Runs out-of-band (nightly schedule or the admin
// endpoint); best-effort — one bad key never aborts the rest.
type BulkRecomputeJob struct {
	Roster     CohortRoster
	Maintainer Recomputer
	Classifier *AgeCohortClassifier
}

func NewBulkRecomputeJob(roster CohortRoster, maintainer Recomputer, classifier *AgeCohortClassifier) *BulkRecomputeJob {
	return &BulkRecomputeJob{Roster: roster, Maintainer: maintainer, Classifier: classifier}
}

// RunAll enumerates the distinct (age range, category, commitment) tuples
// among opted-in members, classifies each into its band and recomputes every
// distinct cohort key once. Different raw age ranges often land in the same
// band; keys are de-duplicated before recomputing to avoid redundant passes
// (recompute is idempotent, so this is purely an efficiency concern).
func (j *BulkRecomputeJob) RunAll() (RecomputeSummary, error) {
	tuples, err := j.Roster.DistinctCohorts()
	if err != nil {
		return RecomputeSummary{}, fmt.Errorf("failed to enumerate cohorts: %w", err)
	}

	seen := make(map[CohortKey]bool, len(tuples))
	keys := make([]CohortKey, 0, len(tuples))
	for _, t := range tuples {
		key := CohortKey{
			Band:         j.Classifier.Classify(t.AgeRangeMin, t.AgeRangeMax),
			CategorySlug: t.CategorySlug,
			IntentLevel:  t.IntentLevel,
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	summary := RecomputeSummary{Cohorts: len(keys)}
	for _, key := range keys {
		if err := j.Maintainer.Recompute(key.Band, key.CategorySlug, key.IntentLevel); err != nil {
			summary.Failed++
			log.Printf("❌ [BULK] Recompute failed for %s/%s/%s: %v", key.Band, key.CategorySlug, key.IntentLevel, err)
			continue
		}
		summary.Recomputed++
	}

	log.Printf("✅ [BULK] Recompute run finished: %d cohort(s), %d ok, %d failed",
		summary.Cohorts, summary.Recomputed, summary.Failed)
	return summary, nil
}
