package models

import (
	"time"

	"gorm.io/gorm"
)

// UserInterest is a local snapshot of one tracked interest for one member.
// Mirrored from the Family Profile Service alongside FamilyMember rows.
type UserInterest struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"not null;index:idx_user_interest,unique,priority:1" json:"external_user_id"`

	// Category is the display form ("Music Production"); CategorySlug is the
	// normalized key every query and cohort row is keyed by.
	Category     string `gorm:"not null" json:"category"`
	CategorySlug string `gorm:"not null;index:idx_user_interest,unique,priority:2" json:"category_slug"`

	CurrentLevel SkillLevel      `gorm:"not null" json:"current_level"`
	IntentLevel  CommitmentLevel `gorm:"not null;index" json:"intent_level"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
