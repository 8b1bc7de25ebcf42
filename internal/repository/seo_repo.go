// Package repository contains the repository layer for the Petition API
package repository

import (
	"github.com/saveourgreen/petitionapi/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeoRepository is the database repository for the SEO settings row
type SeoRepository struct {
	DB *gorm.DB
}

// NewSeoRepository creates a new repository for the SEO settings
func NewSeoRepository(db *gorm.DB) *SeoRepository {
	return &SeoRepository{DB: db}
}

// GetSeoSettings returns the settings row.
// Returns gorm.ErrRecordNotFound when none has been saved yet.
func (r *SeoRepository) GetSeoSettings() (*models.SeoSettings, error) {
	var settings models.SeoSettings
	err := r.DB.First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertSeoSettings writes the settings row, updating in place when it exists
func (r *SeoRepository) UpsertSeoSettings(settings *models.SeoSettings) error {
	settings.ID = 1
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "canonical_url", "social_tags", "updated_at"}),
	}).Create(settings).Error
}
