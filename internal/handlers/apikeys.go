// apikeys.go handles API key management endpoints.
//
// POST   /api/v1/keys     — Create a new API key (admin only)
// GET    /api/v1/keys     — List keys (admin only, hashes never included)
// DELETE /api/v1/keys/:id — Revoke a key (admin only)
//
// Key management is gated by the X-Admin-Key header rather than normal
// auth: someone has to mint the first key before any key exists.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/middleware"
	"github.com/clinidata/radreport-api/internal/models"
)

// apiKeyPrefix marks keys issued by this service. The prefix lets the
// auth middleware tell keys apart from JWTs in an Authorization header.
const apiKeyPrefix = "rr_"

// generateAPIKey creates a new random API key: rr_ + 32 hex chars.
func generateAPIKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

// requireAdmin checks the X-Admin-Key header against the configured admin
// key. Returns false (after writing the error response) when the check fails.
func (h *Handler) requireAdmin(c *gin.Context) bool {
	if h.Config.AdminAPIKey == "" || c.GetHeader("X-Admin-Key") != h.Config.AdminAPIKey {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "forbidden",
			Message: "Key management requires a valid X-Admin-Key header",
			Code:    http.StatusForbidden,
		})
		return false
	}
	return true
}

// CreateAPIKey mints a new API key. The raw key appears in this response
// and nowhere else — only its SHA-256 hash is stored.
// POST /api/v1/keys
func (h *Handler) CreateAPIKey(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be JSON with a non-empty 'name' field",
			Code:    http.StatusBadRequest,
		})
		return
	}

	rawKey, err := generateAPIKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "key_generation_failed",
			Message: "Failed to generate API key",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	rateLimit := req.RateLimit
	if rateLimit <= 0 {
		rateLimit = h.Config.DefaultRateLimit
	}

	key := &models.APIKey{
		KeyHash:   middleware.HashAPIKey(rawKey),
		KeyPrefix: rawKey[:8],
		Name:      req.Name,
		Active:    true,
		RateLimit: rateLimit,
	}
	if err := h.DB.CreateAPIKey(c.Request.Context(), key); err != nil {
		log.Printf("❌ Failed to save API key: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to save API key",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	log.Printf("✅ Created API key '%s' (%s...)", key.Name, key.KeyPrefix)
	c.JSON(http.StatusCreated, models.CreateAPIKeyResponse{
		APIKey: *key,
		RawKey: rawKey,
	})
}

// ListAPIKeys returns all keys without hashes.
// GET /api/v1/keys
func (h *Handler) ListAPIKeys(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	keys, err := h.DB.ListAPIKeys(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list API keys",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if keys == nil {
		keys = []models.APIKey{}
	}
	c.JSON(http.StatusOK, keys)
}

// RevokeAPIKey deactivates a key by ID. Revoked keys stay in the table
// for the audit trail but stop authenticating immediately.
// DELETE /api/v1/keys/:id
func (h *Handler) RevokeAPIKey(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	id := c.Param("id")
	if err := h.DB.RevokeAPIKey(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "API key not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
