package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/service"
	"github.com/saveourgreen/petitionapi/pkg/utils/response"
	"gorm.io/gorm"
)

// AdminAuthMiddleware gates the admin routes behind a valid bearer token
func AdminAuthMiddleware(db *gorm.DB, redisClient *redis.Client) echo.MiddlewareFunc {
	authService := service.NewAuthService(db, redisClient)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c)
			if token == "" {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Missing Authorization header")
			}

			if !authService.ValidateSession(token) {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Invalid or expired session")
			}

			// Make the token available to handlers (logout needs it)
			c.Set("admin_token", token)

			return next(c)
		}
	}
}

// ExtractBearerToken returns the token from an `Authorization: Bearer x`
// header, or "" when the header is missing or malformed
func ExtractBearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
