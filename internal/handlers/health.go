// Package handlers contains HTTP handler functions for the API.
//
// Related handlers are grouped onto a Handler struct that holds shared
// dependencies (database, extractor, config values). Dependencies are
// injected explicitly, which keeps handlers easy to test — construct a
// Handler with a temp database and call the methods directly.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/config"
	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/models"
	"github.com/clinidata/radreport-api/internal/services/pdftext"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	DB        *database.DB
	Extractor *pdftext.Extractor
	Config    *config.Config
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(db *database.DB, extractor *pdftext.Extractor, cfg *config.Config) *Handler {
	return &Handler{
		DB:        db,
		Extractor: extractor,
		Config:    cfg,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	ocrStatus := "available"
	if !h.Config.OCRAvailable() {
		ocrStatus = "unavailable"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  Version,
		Database: dbStatus,
		OCR:      ocrStatus,
	})
}
