// ratelimit.go implements a simple in-memory token bucket rate limiter.
//
// Each caller (API key or user) gets its own bucket that refills at a
// steady rate. OCR-backed extraction is expensive, so runaway clients
// are throttled before they tie up the tesseract subprocesses.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/models"
)

// bucket tracks the remaining tokens for a single caller.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter enforces a per-caller requests-per-minute ceiling.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int // requests per minute
}

// NewRateLimiter creates a limiter allowing `limit` requests per minute
// per caller. A background sweep evicts buckets idle for over an hour.
func NewRateLimiter(limit int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if time.Since(b.lastSeen) > time.Hour {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// allow reports whether the caller may proceed, and how many tokens remain.
func (rl *RateLimiter) allow(callerID string, limit int) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[callerID]
	if !ok {
		b = &bucket{tokens: float64(limit), lastSeen: now}
		rl.buckets[callerID] = b
	}

	// Refill proportionally to elapsed time, capped at the full limit.
	refill := now.Sub(b.lastSeen).Minutes() * float64(limit)
	b.tokens += refill
	if b.tokens > float64(limit) {
		b.tokens = float64(limit)
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// RateLimit returns the Gin middleware for this limiter. Keys with a
// per-key rate_limit override the default.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := rl.limit
		callerID := c.ClientIP()
		if key := GetAPIKey(c); key != nil {
			callerID = key.ID
			if key.RateLimit > 0 {
				limit = key.RateLimit
			}
		} else if user := GetUser(c); user != nil {
			callerID = user.ID
		}

		ok, remaining := rl.allow(callerID, limit)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: "Rate limit exceeded. Slow down and retry shortly.",
				Code:    http.StatusTooManyRequests,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
