// Package handlers contains the handlers for the API
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saveourgreen/petitionapi/internal/service"
	"github.com/saveourgreen/petitionapi/pkg/utils/response"
	"gorm.io/gorm"
)

// SeoHandler is the handler for the SEO settings API
type SeoHandler struct {
	service *service.SeoService
}

// NewSeoHandler creates a new handler for the SEO settings API
func NewSeoHandler(db *gorm.DB) *SeoHandler {
	return &SeoHandler{service: service.NewSeoService(db)}
}

// GetSeoSettings returns the page metadata for rendering
func (h *SeoHandler) GetSeoSettings(c echo.Context) error {
	settings, err := h.service.GetSeoSettings()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, settings)
}

// UpdateSeoSettings saves the page metadata from the admin panel
func (h *SeoHandler) UpdateSeoSettings(c echo.Context) error {
	var req service.SeoUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	settings, err := h.service.UpdateSeoSettings(&req)
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, settings)
}
