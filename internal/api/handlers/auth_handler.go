// Package handlers contains the handlers for the API
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/api/middleware"
	"github.com/saveourgreen/petitionapi/internal/service"
	"github.com/saveourgreen/petitionapi/pkg/utils/response"
	"gorm.io/gorm"
)

// AuthHandler is the handler for the admin auth API
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler for the admin auth API
func NewAuthHandler(db *gorm.DB, redisClient *redis.Client) *AuthHandler {
	return &AuthHandler{service: service.NewAuthService(db, redisClient)}
}

// LoginRequestBody is the login payload
type LoginRequestBody struct {
	Password string `json:"password" form:"password"`
}

// LoginResponseData is the response data for a successful login
type LoginResponseData struct {
	Token string `json:"token"`
}

// StatusResponseData is the response data for the auth status endpoint
type StatusResponseData struct {
	PasswordSet  bool `json:"password_set"`
	SessionValid bool `json:"session_valid"`
}

// Login verifies the password (or sets it, on the very first login) and
// returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequestBody
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}
	if req.Password == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`password` is required")
	}

	token := h.service.AuthenticateAdmin(req.Password)
	if token == "" {
		return response.ErrorResponse(c, http.StatusUnauthorized, "AuthenticationException", "Invalid password")
	}

	return response.SuccessResponse(c, LoginResponseData{Token: token})
}

// Status reports whether a password has been set and whether the presented
// token (if any) is still valid. Used by the panel to pick its copy.
func (h *AuthHandler) Status(c echo.Context) error {
	token := middleware.ExtractBearerToken(c)

	data := StatusResponseData{
		PasswordSet: h.service.IsPasswordSet(),
	}
	if token != "" {
		data.SessionValid = h.service.ValidateSession(token)
	}

	return response.SuccessResponse(c, data)
}

// Logout deletes the caller's session. Always succeeds from the caller's
// point of view.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("admin_token").(string)
	h.service.LogoutToken(token)
	return response.SuccessResponse(c, true)
}

// Reset deletes the stored password and logs out; the next login sets a
// new password
func (h *AuthHandler) Reset(c echo.Context) error {
	if !h.service.ResetAdminPassword() {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", "Failed to reset password")
	}
	return response.SuccessResponse(c, true)
}
