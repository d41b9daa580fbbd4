package models

import "time"

// CohortStats is one row of the discretized skill-level distribution for a
// cohort: how many opted-in members of (age band, category, commitment level)
// sit at one skill level, plus the cumulative percentile strictly below it.
//
// The five key columns form the upsert conflict target — recomputation
// overwrites rows in place and is idempotent.
type CohortStats struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	AgeRangeMin  int             `gorm:"not null;index:idx_cohort_stats,unique,priority:1" json:"age_range_min"`
	AgeRangeMax  int             `gorm:"not null;index:idx_cohort_stats,unique,priority:2" json:"age_range_max"`
	CategorySlug string          `gorm:"not null;index:idx_cohort_stats,unique,priority:3" json:"category_slug"`
	IntentLevel  CommitmentLevel `gorm:"not null;index:idx_cohort_stats,unique,priority:4" json:"intent_level"`
	SkillLevel   SkillLevel      `gorm:"not null;index:idx_cohort_stats,unique,priority:5" json:"skill_level"`

	UserCount int `gorm:"not null;default:0" json:"user_count"`

	// Percentile is the share of the cohort strictly below this skill level,
	// written unclamped at recompute time (the lowest level stores 0). The
	// comparison path recomputes its own clamped percentile from UserCount;
	// this column is an auxiliary distribution cache for other consumers.
	Percentile      int `gorm:"not null;default:0" json:"percentile"`
	TotalCohortSize int `gorm:"not null;default:0" json:"total_cohort_size"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Band returns the age band the row is keyed under.
func (c CohortStats) Band() AgeBand {
	return AgeBand{Min: c.AgeRangeMin, Max: c.AgeRangeMax}
}
