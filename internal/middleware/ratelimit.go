// ratelimit.go implements per-client rate limiting using a token bucket algorithm.
//
// How token bucket works:
// - Each client IP gets a "bucket" with N tokens (= uploads per hour)
// - Each request consumes 1 token
// - Tokens refill at a steady rate (N tokens per hour)
// - If the bucket is empty, the request is rejected with 429 Too Many Requests
//
// Uploads are the expensive route (PDF parsing plus an LLM call), so this
// sits in front of POST /upload only.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autovendor/contract-flags/internal/models"
)

// RateLimiter tracks request rates per client.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// bucket tracks the token state for a single client.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// allowResult contains the result of a rate limit check,
// including header information for the response.
type allowResult struct {
	allowed   bool
	remaining float64
}

// NewRateLimiter creates a limiter allowing perHour requests per client.
// A non-positive perHour disables limiting.
func NewRateLimiter(perHour int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   perHour,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	// Start background cleanup goroutine
	go rl.cleanup(10 * time.Minute)

	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// RateLimit returns Gin middleware that enforces the per-client limit.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		result := rl.allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		if !result.allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:  "rate_limit_exceeded",
				Detail: "Too many uploads. Try again later.",
				Code:   http.StatusTooManyRequests,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%.0f", result.remaining))
		c.Next()
	}
}

// allow checks if a request should be allowed, consuming a token if so.
func (rl *RateLimiter) allow(clientID string) allowResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	maxTokens := float64(rl.limit)
	refillRate := maxTokens / 3600.0 // tokens per second

	b, exists := rl.buckets[clientID]
	if !exists {
		b = &bucket{tokens: maxTokens, lastRefill: now}
		rl.buckets[clientID] = b
	}

	// Refill tokens based on elapsed time
	b.tokens += now.Sub(b.lastRefill).Seconds() * refillRate
	if b.tokens > maxTokens {
		b.tokens = maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1.0 {
		return allowResult{allowed: false}
	}

	b.tokens--
	return allowResult{allowed: true, remaining: b.tokens}
}

// cleanup periodically removes stale buckets to prevent memory leaks.
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle(time.Hour)
		}
	}
}

// evictIdle drops buckets untouched for longer than idle; a fresh bucket is full anyway.
func (rl *RateLimiter) evictIdle(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, b := range rl.buckets {
		if now.Sub(b.lastRefill) > idle {
			delete(rl.buckets, id)
		}
	}
}
