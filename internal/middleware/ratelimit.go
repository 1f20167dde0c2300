package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a best-effort in-memory token bucket keyed by route and
// client address. For a multi-instance deployment move the buckets to a
// shared store such as Redis.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter allows limit requests per client per rolling window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Middleware throttles one route. Exceeding the quota answers 429 with
// caching disabled.
func (rl *RateLimiter) Middleware(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(route + ":" + c.ClientIP()) {
			c.Header("Cache-Control", "no-store")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

// Allow consumes one token from key's bucket, refilling continuously at
// limit tokens per window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rl.limit), lastRefill: now}
		rl.buckets[key] = bucket
	}

	elapsed := now.Sub(bucket.lastRefill)
	if elapsed > 0 {
		refill := float64(rl.limit) * (float64(elapsed) / float64(rl.window))
		bucket.tokens += refill
		if bucket.tokens > float64(rl.limit) {
			bucket.tokens = float64(rl.limit)
		}
	}
	bucket.lastRefill = now

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens--
	return true
}
