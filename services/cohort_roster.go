package services

import (
	"log"

	"gorm.io/gorm"

	"interest-insights-system/models"
)

// CohortKey identifies one distinct cohort present among opted-in members.
type CohortKey struct {
	Band         models.AgeBand
	CategorySlug string
	IntentLevel  models.CommitmentLevel
}

// MemberInterestRow joins one member's profile with one of their interests.
type MemberInterestRow struct {
	Member   models.FamilyMember
	Interest models.UserInterest
}

// CohortRoster is the read-side view of the mirrored member/interest tables.
// Every method sees only members with allow_peer_comparisons = true — the
// opt-in filter lives here so callers cannot forget it.
type CohortRoster interface {
	// LevelCounts returns the skill-level histogram of opted-in members whose
	// age range is contained in band, for one category and commitment level,
	// sorted ascending by level.
	LevelCounts(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]LevelCount, error)

	// DistinctCohorts enumerates every distinct (age range, category,
	// commitment) tuple among opted-in members; age ranges are raw, not yet
	// classified into bands.
	DistinctCohorts() ([]RawCohortTuple, error)

	// MemberInterest fetches one member's profile plus their interest in one
	// category. Either pointer is nil when the row does not exist.
	MemberInterest(externalUserID, categorySlug string) (*models.FamilyMember, *models.UserInterest, error)

	// MemberInterests lists every interest one member tracks.
	MemberInterests(externalUserID string) ([]models.UserInterest, error)
}

// RawCohortTuple is one distinct projection row from DistinctCohorts.
type RawCohortTuple struct {
	AgeRangeMin  int                    `gorm:"column:age_range_min"`
	AgeRangeMax  int                    `gorm:"column:age_range_max"`
	CategorySlug string                 `gorm:"column:category_slug"`
	IntentLevel  models.CommitmentLevel `gorm:"column:intent_level"`
}

// GormCohortRoster implements CohortRoster over the mirrored tables.
type GormCohortRoster struct {
	DB *gorm.DB
}

func NewGormCohortRoster(db *gorm.DB) *GormCohortRoster {
	return &GormCohortRoster{DB: db}
}

func (r *GormCohortRoster) LevelCounts(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]LevelCount, error) {
	type row struct {
		CurrentLevel int   `gorm:"column:current_level"`
		UserCount    int64 `gorm:"column:user_count"`
	}
	var raw []row
	err := r.DB.Raw(`
		SELECT ui.current_level, COUNT(*) AS user_count
		FROM user_interests ui
		INNER JOIN family_members fm ON fm.external_user_id = ui.external_user_id
		WHERE fm.allow_peer_comparisons = TRUE
		  AND fm.deleted_at IS NULL
		  AND ui.deleted_at IS NULL
		  AND fm.age_range_min >= ? AND fm.age_range_max <= ?
		  AND ui.category_slug = ?
		  AND ui.intent_level = ?
		GROUP BY ui.current_level
		ORDER BY ui.current_level ASC
	`, band.Min, band.Max, categorySlug, intent).Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	counts := make([]LevelCount, 0, len(raw))
	for _, it := range raw {
		level, perr := models.ParseSkillLevel(it.CurrentLevel)
		if perr != nil {
			// Bad legacy rows are skipped, never trusted into the histogram.
			log.Printf("⚠️ [ROSTER] Skipping invalid skill level in %s/%s/%s: %v", band, categorySlug, intent, perr)
			continue
		}
		counts = append(counts, LevelCount{Level: level, Count: int(it.UserCount)})
	}
	return counts, nil
}

func (r *GormCohortRoster) DistinctCohorts() ([]RawCohortTuple, error) {
	var tuples []RawCohortTuple
	err := r.DB.Raw(`
		SELECT DISTINCT fm.age_range_min, fm.age_range_max, ui.category_slug, ui.intent_level
		FROM user_interests ui
		INNER JOIN family_members fm ON fm.external_user_id = ui.external_user_id
		WHERE fm.allow_peer_comparisons = TRUE
		  AND fm.deleted_at IS NULL
		  AND ui.deleted_at IS NULL
	`).Scan(&tuples).Error
	return tuples, err
}

func (r *GormCohortRoster) MemberInterest(externalUserID, categorySlug string) (*models.FamilyMember, *models.UserInterest, error) {
	var member models.FamilyMember
	if err := r.DB.Where("external_user_id = ?", externalUserID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var interest models.UserInterest
	if err := r.DB.Where("external_user_id = ? AND category_slug = ?", externalUserID, categorySlug).
		First(&interest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &member, nil, nil
		}
		return nil, nil, err
	}
	return &member, &interest, nil
}

func (r *GormCohortRoster) MemberInterests(externalUserID string) ([]models.UserInterest, error) {
	var interests []models.UserInterest
	err := r.DB.Where("external_user_id = ?", externalUserID).
		Order("category_slug ASC").
		Find(&interests).Error
	return interests, err
}
