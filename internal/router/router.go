// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/config"
	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/handlers"
	"github.com/clinidata/radreport-api/internal/middleware"
	"github.com/clinidata/radreport-api/internal/services/pdftext"
)

// Setup creates and configures the Gin router with all routes.
func Setup(db *database.DB, extractor *pdftext.Extractor, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(db, extractor, cfg)
	rateLimiter := middleware.NewRateLimiter(cfg.DefaultRateLimit)

	// --- Public routes (no auth required) ---
	r.GET("/api/v1/health", h.HealthCheck)

	// Key management is gated by X-Admin-Key inside the handlers —
	// someone has to mint the first key before any key exists.
	r.POST("/api/v1/keys", h.CreateAPIKey)
	r.GET("/api/v1/keys", h.ListAPIKeys)
	r.DELETE("/api/v1/keys/:id", h.RevokeAPIKey)

	// --- Auth routes — public ---
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)

	// --- JWT-protected routes ---
	jwtProtected := r.Group("/api/v1")
	jwtProtected.Use(middleware.JWTAuth(db, cfg.JWTSecret))
	{
		jwtProtected.GET("/auth/me", h.GetMe)
		jwtProtected.POST("/auth/refresh", h.RefreshToken)
	}

	// --- Protected routes (API key OR JWT) ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.DualAuth(db, cfg.JWTSecret))
	protected.Use(rateLimiter.RateLimit())
	{
		// Report extraction
		protected.POST("/reports/extract", h.ExtractReport)
		protected.POST("/reports/extract-text", h.ExtractText)
		protected.POST("/reports/batch", h.BatchExtract)

		// Report retrieval — /reports/export must be registered before /reports/:id
		protected.GET("/reports/export", h.ExportReports)
		protected.GET("/reports", h.ListReports)
		protected.GET("/reports/:id", h.GetReport)
		protected.GET("/reports/:id/export", h.ExportReport)
		protected.DELETE("/reports/:id", h.DeleteReport)
	}

	return r
}
