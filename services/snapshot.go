package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"interest-insights-system/models"
	"interest-insights-system/utils"
)

// SnapshotService exports the full cohort_stats table as a CSV object to R2.
// The analytics pipeline consumes these nightly dumps; the service itself
// never reads them back.
type SnapshotService struct {
	DB *gorm.DB
}

func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{DB: db}
}

// ExportCohortStats writes every cohort_stats row into a timestamped CSV and
// uploads it. Returns the public URL of the uploaded object.
func (s *SnapshotService) ExportCohortStats(ctx context.Context) (string, error) {
	var rows []models.CohortStats
	if err := s.DB.
		Order("age_range_min ASC, category_slug ASC, intent_level ASC, skill_level ASC").
		Find(&rows).Error; err != nil {
		return "", fmt.Errorf("failed to read cohort stats for snapshot: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"age_range_min", "age_range_max", "category_slug", "intent_level",
		"skill_level", "user_count", "percentile", "total_cohort_size", "updated_at",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.AgeRangeMin),
			strconv.Itoa(row.AgeRangeMax),
			row.CategorySlug,
			string(row.IntentLevel),
			strconv.Itoa(int(row.SkillLevel)),
			strconv.Itoa(row.UserCount),
			strconv.Itoa(row.Percentile),
			strconv.Itoa(row.TotalCohortSize),
			row.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush snapshot CSV: %w", err)
	}

	key := fmt.Sprintf("cohort-snapshots/%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05"))
	url, err := utils.UploadBytesToR2(ctx, key, "text/csv", buf.Bytes())
	if err != nil {
		return "", err
	}

	log.Printf("🗂️ [SNAPSHOT] Exported %d cohort stats row(s) to %s", len(rows), url)
	return url, nil
}
