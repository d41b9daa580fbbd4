package models

import (
	"time"

	"gorm.io/gorm"
)

// FamilyMember is a local snapshot of user data needed for peer comparisons.
// Owned and managed solely by the Insights service.
// Populated via sync worker from the Family Profile Service's user table.
type FamilyMember struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // The profile service's UUID
	Username       string `gorm:"index;not null" json:"username"`

	// Age is mirrored as a range, never an exact birthdate — the profile
	// service only shares the coarse range the user entered.
	AgeRangeMin int `gorm:"not null" json:"age_range_min"`
	AgeRangeMax int `gorm:"not null" json:"age_range_max"`

	// AllowPeerComparisons is the per-user privacy opt-in. It gates both
	// inclusion in cohort aggregates and eligibility to request a comparison.
	// Defaults to false; only an explicit true counts.
	AllowPeerComparisons bool `gorm:"default:false;index" json:"allow_peer_comparisons"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete (members removed upstream keep their history here)
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
