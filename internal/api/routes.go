// Package api contains the API routes for the Petition API
package api

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/api/handlers"
	"github.com/saveourgreen/petitionapi/internal/api/middleware"
	"github.com/saveourgreen/petitionapi/internal/config"
	"github.com/saveourgreen/petitionapi/pkg/utils/response"
	"gorm.io/gorm"
)

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) {

	// Create a group for all API routes
	api := e.Group("/api")

	// Index route
	api.GET("/", indexRoute(cfg))

	// Signature routes (public)
	signatureHandler := handlers.NewSignatureHandler(db, redisClient)
	signatureGroup := api.Group("/signature")
	signatureGroup.POST("", signatureHandler.CreateSignature)
	signatureGroup.GET("/count", signatureHandler.GetSignatureCount)

	// SEO route (public, read-only: the page renders from it)
	seoHandler := handlers.NewSeoHandler(db)
	api.GET("/seo", seoHandler.GetSeoSettings)

	// Admin auth routes (unprotected: login and status must work logged out)
	authHandler := handlers.NewAuthHandler(db, redisClient)
	adminGroup := api.Group("/admin")
	adminGroup.POST("/login", authHandler.Login)
	adminGroup.GET("/status", authHandler.Status)

	// Admin routes (protected)
	protectedGroup := api.Group("/admin")
	protectedGroup.Use(middleware.AdminAuthMiddleware(db, redisClient))
	protectedGroup.POST("/logout", authHandler.Logout)
	protectedGroup.POST("/reset", authHandler.Reset)
	protectedGroup.GET("/signatures", signatureHandler.GetSignatures)
	protectedGroup.GET("/signatures/export", signatureHandler.ExportSignatures)
	protectedGroup.DELETE("/signatures/:id", signatureHandler.DeleteSignature)
	protectedGroup.PUT("/seo", seoHandler.UpdateSeoSettings)
}

// indexRoute sets up the index route for the API
func indexRoute(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
		return response.SuccessResponse(c, message)
	}
}
