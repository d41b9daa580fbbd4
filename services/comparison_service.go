package services

import (
	"fmt"
	"log"

	"github.com/gosimple/slug"

	"interest-insights-system/models"
)

// CohortComparison is the transient answer to "how do I compare to my peers".
// Computed on demand, never persisted.
type CohortComparison struct {
	UserID       string                 `json:"user_id"`
	Category     string                 `json:"category"`
	CategorySlug string                 `json:"category_slug"`
	Percentile   int                    `json:"percentile"`
	CohortSize   int                    `json:"cohort_size"`
	AgeBand      models.AgeBand         `json:"age_band"`
	IntentLevel  models.CommitmentLevel `json:"intent_level"`
	Message      string                 `json:"message"`
}

// Recomputer is the slice of the maintainer the comparison path needs.
type Recomputer interface {
	Recompute(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) error
}

// ComparisonService answers peer-comparison queries. A nil result with a nil
// error is a normal outcome (not opted in, no such interest, or an empty
// cohort) — only storage failures surface as errors.
type ComparisonService struct {
	Roster     CohortRoster
	Stats      CohortStatsStore
	Maintainer Recomputer
	Classifier *AgeCohortClassifier
}

func NewComparisonService(roster CohortRoster, stats CohortStatsStore, maintainer Recomputer, classifier *AgeCohortClassifier) *ComparisonService {
	return &ComparisonService{Roster: roster, Stats: stats, Maintainer: maintainer, Classifier: classifier}
}

// Compare returns the caller's percentile within their cohort for one
// category, or (nil, nil) when no comparison is available.
//
// The opt-in check runs before any cohort data is touched: an opted-out
// user's request never triggers cohort reads or recompute side effects.
func (s *ComparisonService) Compare(externalUserID, category string) (*CohortComparison, error) {
	categorySlug := slug.Make(category)

	member, interest, err := s.Roster.MemberInterest(externalUserID, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load member interest: %w", err)
	}
	if member == nil || interest == nil {
		return nil, nil
	}
	if !member.AllowPeerComparisons {
		return nil, nil
	}

	band := s.Classifier.Classify(member.AgeRangeMin, member.AgeRangeMax)

	rows, err := s.tryRead(band, categorySlug, interest.IntentLevel)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Lazy population: a read-triggered write, by contract (the cohort has
		// never been computed). One recompute, one re-query, no further retries.
		rows, err = s.populateThenRead(band, categorySlug, interest.IntentLevel)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			log.Printf("📭 [COMPARE] Empty cohort %s/%s/%s for user %s", band, categorySlug, interest.IntentLevel, externalUserID)
			return nil, nil
		}
	}

	histogram := make([]LevelCount, 0, len(rows))
	cohortSize := 0
	for _, row := range rows {
		histogram = append(histogram, LevelCount{Level: row.SkillLevel, Count: row.UserCount})
		cohortSize += row.UserCount
	}

	percentile := CalculatePercentile(interest.CurrentLevel, histogram)
	return &CohortComparison{
		UserID:       externalUserID,
		Category:     interest.Category,
		CategorySlug: categorySlug,
		Percentile:   percentile,
		CohortSize:   cohortSize,
		AgeBand:      band,
		IntentLevel:  interest.IntentLevel,
		Message:      ComposeEncouragement(percentile, interest.IntentLevel, interest.Category, band),
	}, nil
}

// CompareAll runs Compare for every interest the user tracks, skipping the
// ones with no comparison available.
func (s *ComparisonService) CompareAll(externalUserID string) ([]CohortComparison, error) {
	interests, err := s.Roster.MemberInterests(externalUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	results := make([]CohortComparison, 0, len(interests))
	for _, interest := range interests {
		cmp, err := s.Compare(externalUserID, interest.Category)
		if err != nil {
			return nil, err
		}
		if cmp != nil {
			results = append(results, *cmp)
		}
	}
	return results, nil
}

func (s *ComparisonService) tryRead(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]models.CohortStats, error) {
	rows, err := s.Stats.Query(band, categorySlug, intent)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort stats: %w", err)
	}
	return rows, nil
}

func (s *ComparisonService) populateThenRead(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]models.CohortStats, error) {
	if err := s.Maintainer.Recompute(band, categorySlug, intent); err != nil {
		return nil, fmt.Errorf("lazy cohort recompute failed: %w", err)
	}
	return s.tryRead(band, categorySlug, intent)
}
