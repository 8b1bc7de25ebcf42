// Package service contains the service layer for the Petition API
package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saveourgreen/petitionapi/internal/models"
	"github.com/saveourgreen/petitionapi/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeoUpdateRequest is the admin panel payload for the page metadata
type SeoUpdateRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	CanonicalURL string            `json:"canonical_url"`
	SocialTags   map[string]string `json:"social_tags"`
}

// SeoService is the service for the page SEO/social metadata
type SeoService struct {
	repo *repository.SeoRepository
}

// NewSeoService creates a new service for the SEO settings
func NewSeoService(db *gorm.DB) *SeoService {
	return &SeoService{repo: repository.NewSeoRepository(db)}
}

// GetSeoSettings returns the stored settings, or an empty settings row when
// none has been saved yet so the page always has something to render.
func (s *SeoService) GetSeoSettings() (*models.SeoSettings, error) {
	settings, err := s.repo.GetSeoSettings()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.SeoSettings{SocialTags: datatypes.JSON([]byte("{}"))}, nil
		}
		return nil, fmt.Errorf("failed to get seo settings: %v", err)
	}
	return settings, nil
}

// UpdateSeoSettings writes the settings row from the admin payload
func (s *SeoService) UpdateSeoSettings(req *SeoUpdateRequest) (*models.SeoSettings, error) {
	tags := req.SocialTags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social tags: %v", err)
	}

	settings := &models.SeoSettings{
		Title:        req.Title,
		Description:  req.Description,
		CanonicalURL: req.CanonicalURL,
		SocialTags:   datatypes.JSON(tagsJSON),
	}
	if err := s.repo.UpsertSeoSettings(settings); err != nil {
		return nil, fmt.Errorf("failed to save seo settings: %v", err)
	}
	return settings, nil
}
