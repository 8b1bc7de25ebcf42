// Package models contains the models for the Petition API
package models

import (
	"time"

	"gorm.io/datatypes"
)

const SeoSettingsTableName = "seo_settings"

// SeoSettings is the single-row table holding the page metadata the admin
// panel edits. SocialTags is a free-form map of OpenGraph/Twitter tags.
type SeoSettings struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	CanonicalURL string         `json:"canonical_url"`
	SocialTags   datatypes.JSON `gorm:"type:jsonb" json:"social_tags"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SeoSettings) TableName() string {
	return SeoSettingsTableName
}
