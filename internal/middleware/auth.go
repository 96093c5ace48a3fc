// auth.go implements API key authentication.
//
// HOW IT WORKS:
// 1. The client sends an API key in the X-API-Key header (or as a
//    "Bearer rr_..." Authorization header).
// 2. We hash the presented key with SHA-256 and look the hash up in the
//    database — raw keys are never stored.
// 3. If the key exists and is active, the request proceeds and the key
//    record is attached to the Gin context for downstream handlers.
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/models"
)

// apiKeyContextKey is where the authenticated key is stored on the Gin context.
const apiKeyContextKey = "api_key"

// HashAPIKey returns the hex SHA-256 digest of a raw API key.
// The same function is used when creating keys and when verifying them,
// so the two sides always agree.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// extractAPIKey pulls the raw key from the request, preferring the
// X-API-Key header and falling back to "Authorization: Bearer rr_...".
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer rr_") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// APIKeyAuth requires a valid, active API key on every request.
func APIKeyAuth(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := extractAPIKey(c)
		if rawKey == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing API key. Provide it via the X-API-Key header.",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		key, err := db.GetAPIKeyByHash(c.Request.Context(), HashAPIKey(rawKey))
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or revoked API key.",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		// Best effort: a failed timestamp update should not fail the request.
		_ = db.UpdateAPIKeyLastUsed(c.Request.Context(), key.ID)

		c.Set(apiKeyContextKey, key)
		c.Next()
	}
}

// GetAPIKey retrieves the authenticated API key from the Gin context.
// Returns nil if the request was not authenticated with an API key
// (e.g. it came through the JWT path of DualAuth).
func GetAPIKey(c *gin.Context) *models.APIKey {
	val, ok := c.Get(apiKeyContextKey)
	if !ok {
		return nil
	}
	key, ok := val.(*models.APIKey)
	if !ok {
		return nil
	}
	return key
}
