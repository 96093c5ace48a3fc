// jwt.go implements JWT session authentication for the review UI.
//
// API keys suit scripted clients (batch ingest, integrations) but are
// awkward for a browser login flow, so human users authenticate with
// email + password and receive a short-lived signed token instead.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/models"
)

// userContextKey is where the authenticated user is stored on the Gin context.
const userContextKey = "user"

// tokenLifetime is how long an issued token stays valid.
const tokenLifetime = 24 * time.Hour

// JWTClaims are the claims embedded in every issued token.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a signed token for the given user.
func GenerateJWT(user *models.User, secret string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates a token string and returns its claims.
func ParseJWT(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// bearerToken extracts a JWT from the Authorization header. API keys
// also travel as Bearer tokens, so keys with the rr_ prefix are skipped.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if strings.HasPrefix(token, "rr_") {
		return ""
	}
	return token
}

// JWTAuth requires a valid JWT and loads the corresponding user.
func JWTAuth(db *database.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing bearer token.",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		claims, err := ParseJWT(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token.",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		user, err := db.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "User no longer exists.",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// DualAuth accepts either a valid API key or a valid JWT. Report
// endpoints are reachable by both scripted clients and logged-in users.
func DualAuth(db *database.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// API key first: it is the cheaper check.
		if rawKey := extractAPIKey(c); rawKey != "" {
			key, err := db.GetAPIKeyByHash(c.Request.Context(), HashAPIKey(rawKey))
			if err == nil {
				_ = db.UpdateAPIKeyLastUsed(c.Request.Context(), key.ID)
				c.Set(apiKeyContextKey, key)
				c.Next()
				return
			}
		}

		if tokenString := bearerToken(c); tokenString != "" {
			claims, err := ParseJWT(tokenString, secret)
			if err == nil {
				if user, err := db.GetUserByID(c.Request.Context(), claims.UserID); err == nil {
					c.Set(userContextKey, user)
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Provide a valid API key or bearer token.",
			Code:    http.StatusUnauthorized,
		})
		c.Abort()
	}
}

// GetUser retrieves the authenticated user from the Gin context, or nil
// if the request was authenticated with an API key.
func GetUser(c *gin.Context) *models.User {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
