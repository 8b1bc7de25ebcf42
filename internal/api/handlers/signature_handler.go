// Package handlers contains the handlers for the API
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/service"
	"github.com/saveourgreen/petitionapi/pkg/utils/response"
	"gorm.io/gorm"
)

// SignatureHandler is the handler for the signature API
type SignatureHandler struct {
	service *service.SignatureService
}

// NewSignatureHandler creates a new handler for the signature API
func NewSignatureHandler(db *gorm.DB, redisClient *redis.Client) *SignatureHandler {
	return &SignatureHandler{service: service.NewSignatureService(db, redisClient)}
}

// CountResponseData is the response data for the count endpoint
type CountResponseData struct {
	Count int64 `json:"count"`
}

// CreateSignature accepts a public form submission
func (h *SignatureHandler) CreateSignature(c echo.Context) error {
	var req service.SignatureRequest
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	signature, err := h.service.CreateSignature(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrEmailInvalid),
			errors.Is(err, service.ErrPostcodeInvalid),
			errors.Is(err, service.ErrConsentRequired):
			return response.ErrorResponse(c, http.StatusBadRequest, "InputException", err.Error())
		case errors.Is(err, service.ErrAlreadySigned):
			return response.ErrorResponse(c, http.StatusConflict, "InputException", err.Error())
		default:
			return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
		}
	}

	return response.CreatedResponse(c, signature)
}

// GetSignatureCount returns the running signature count
func (h *SignatureHandler) GetSignatureCount(c echo.Context) error {
	count, err := h.service.GetSignatureCount()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, CountResponseData{Count: count})
}

// GetSignatures lists all signatures for the admin panel, newest first
func (h *SignatureHandler) GetSignatures(c echo.Context) error {
	signatures, err := h.service.GetAllSignatures()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, signatures)
}

// DeleteSignature removes one signature by id
func (h *SignatureHandler) DeleteSignature(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`id` must be a number")
	}

	rowsAffected, err := h.service.DeleteSignature(uint(id))
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	if rowsAffected == 0 {
		return response.ErrorResponse(c, http.StatusNotFound, "InputException", "Signature not found")
	}
	return response.SuccessResponse(c, true)
}

// ExportSignatures serves all signatures as a CSV download. The rows are
// fetched before the status is committed, so a store failure still gets an
// error response rather than a truncated 200.
func (h *SignatureHandler) ExportSignatures(c echo.Context) error {
	signatures, err := h.service.GetAllSignatures()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}

	filename := fmt.Sprintf("signatures-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	return service.WriteSignaturesCSV(c.Response(), signatures)
}
