package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interest-insights-system/models"
)

// CohortStatsStore is the persistence contract for cohort distribution rows.
// Upsert must be atomic per row; no cross-row transaction is required — a
// reader racing a recompute may see a cohort mid-rewrite (accepted trade-off,
// the store converges once the recompute finishes).
type CohortStatsStore interface {
	Upsert(entry *models.CohortStats) error
	Query(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]models.CohortStats, error)
}

// GormCohortStatsStore backs CohortStatsStore with the cohort_stats table.
type GormCohortStatsStore struct {
	DB *gorm.DB
}

func NewGormCohortStatsStore(db *gorm.DB) *GormCohortStatsStore {
	return &GormCohortStatsStore{DB: db}
}

// Upsert inserts or overwrites the row matching the composite cohort key.
func (s *GormCohortStatsStore) Upsert(entry *models.CohortStats) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "age_range_min"},
			{Name: "age_range_max"},
			{Name: "category_slug"},
			{Name: "intent_level"},
			{Name: "skill_level"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_count", "percentile", "total_cohort_size", "updated_at",
		}),
	}).Create(entry).Error
}

// Query returns every stored row for one cohort, ordered by ascending skill level.
func (s *GormCohortStatsStore) Query(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]models.CohortStats, error) {
	var rows []models.CohortStats
	err := s.DB.
		Where("age_range_min = ? AND age_range_max = ? AND category_slug = ? AND intent_level = ?",
			band.Min, band.Max, categorySlug, intent).
		Order("skill_level ASC").
		Find(&rows).Error
	return rows, err
}
