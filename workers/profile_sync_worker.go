// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interest-insights-system/models"
)

// MirroredInterest is one interest row inside a member payload.
type MirroredInterest struct {
	Category     string    `json:"category"`
	CurrentLevel int       `json:"current_level"`
	IntentLevel  string    `json:"intent_level"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MirroredMemberFromProfile matches the JSON response from the profile service.
type MirroredMemberFromProfile struct {
	ID                   string             `json:"id"`
	ExternalID           string             `json:"external_id"`
	Username             string             `json:"username"`
	AgeRangeMin          int                `json:"age_range_min"`
	AgeRangeMax          int                `json:"age_range_max"`
	AllowPeerComparisons bool               `json:"allow_peer_comparisons"`
	Interests            []MirroredInterest `json:"interests"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// GetMemberChangesResponse is the top-level structure of the profile service response.
type GetMemberChangesResponse struct {
	Members []MirroredMemberFromProfile `json:"members"`
}

// ProfileSyncWorker mirrors members and their interests from the Family
// Profile Service into the local tables the cohort engine reads. The engine
// itself never calls the profile service — everything goes through this mirror.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/members"
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, profileServiceBaseURL, endpointPath, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      profileServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile-service → family_members/user_interests)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// For incremental syncs, we use the last update time from our local table
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from our local FamilyMember table.
func (w *ProfileSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM family_members WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0) // Fallback to epoch if no records or error
	}
	return lastTime
}

// syncBatch fetches member changes from the profile service and updates the
// local mirror tables.
func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339) // Normalize to UTC for consistency
	log.Printf("[SYNC] 📡 Fetching member changes from profile service since=%s", sinceStr)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base profile service URL '%s': %w", w.baseURL, err)
	}

	// Safely join base URL and endpoint path (handles trailing/leading slashes)
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}

	// Authenticate with dedicated service token
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("[SYNC] ❌ Request to %s failed: %v", finalURL, err)
		return fmt.Errorf("HTTP request to profile service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if readErr != nil {
			log.Printf("[SYNC] ⚠️ Failed to read error body from %s: %v", finalURL, readErr)
		}
		errMsg := string(body)
		log.Printf("[SYNC] ❌ Profile service returned %d for %s: %s", resp.StatusCode, finalURL, errMsg)
		return fmt.Errorf("profile service non-200 response: %d — %s", resp.StatusCode, errMsg)
	}

	var response GetMemberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Printf("[SYNC] ❌ Failed to decode JSON response from %s: %v", finalURL, err)
		return fmt.Errorf("failed to decode profile service response: %w", err)
	}

	if len(response.Members) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d member(s) from profile service…", len(response.Members))

	var upsertCount, errorCount int
	for _, remote := range response.Members {
		if err := w.upsertMember(remote); err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert member (external_id=%q, username=%q): %v",
				remote.ExternalID, remote.Username, err)
			continue
		}
		upsertCount++
	}

	log.Printf("[SYNC] ✅ Synced %d member(s) (%d upserted, %d errors)",
		len(response.Members), upsertCount, errorCount)
	return nil
}

// upsertMember mirrors one member and their interests. Enum fields are
// validated here, at the storage boundary — invalid interest rows are skipped
// with a warning and never reach the cohort tables.
func (w *ProfileSyncWorker) upsertMember(remote MirroredMemberFromProfile) error {
	member := models.FamilyMember{
		ExternalUserID:       remote.ExternalID,
		Username:             remote.Username,
		AgeRangeMin:          remote.AgeRangeMin,
		AgeRangeMax:          remote.AgeRangeMax,
		AllowPeerComparisons: remote.AllowPeerComparisons,
		CreatedAt:            remote.CreatedAt,
		UpdatedAt:            remote.UpdatedAt,
	}

	if err := w.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "age_range_min", "age_range_max",
			"allow_peer_comparisons", "created_at", "updated_at",
		}),
	}).Create(&member).Error; err != nil {
		return err
	}

	for _, raw := range remote.Interests {
		level, err := models.ParseSkillLevel(raw.CurrentLevel)
		if err != nil {
			log.Printf("[SYNC] ⚠️ Skipping interest %q for %s: %v", raw.Category, remote.ExternalID, err)
			continue
		}
		intent, err := models.ParseCommitmentLevel(raw.IntentLevel)
		if err != nil {
			log.Printf("[SYNC] ⚠️ Skipping interest %q for %s: %v", raw.Category, remote.ExternalID, err)
			continue
		}

		interest := models.UserInterest{
			ExternalUserID: remote.ExternalID,
			Category:       raw.Category,
			CategorySlug:   slug.Make(raw.Category),
			CurrentLevel:   level,
			IntentLevel:    intent,
			UpdatedAt:      raw.UpdatedAt,
		}
		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}, {Name: "category_slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category", "current_level", "intent_level", "updated_at",
			}),
		}).Create(&interest).Error; err != nil {
			return err
		}
	}
	return nil
}
