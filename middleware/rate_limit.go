package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// clientWindow tracks request counts for one client IP inside the current
// window.
type clientWindow struct {
	Count   int
	FirstAt time.Time
}

// RateLimiter enforces a per-IP request budget over a sliding window.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientWindow
	maxRequests int
	window      time.Duration
}

// NewRateLimiter creates a rate limiter allowing maxRequests per window for
// each client IP and starts its cleanup loop.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*clientWindow),
		maxRequests: maxRequests,
		window:      window,
	}
	go rl.startCleanup()
	return rl
}

// startCleanup periodically cleans up expired entries
func (rl *RateLimiter) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		rl.cleanup()
	}
}

// cleanup removes entries whose window has passed
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, w := range rl.clients {
		if now.Sub(w.FirstAt) > rl.window {
			delete(rl.clients, ip)
		}
	}
}

// allow records a request for an IP and reports whether it fits the budget,
// along with the wait time when it does not.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.clients[ip]
	if !exists || now.Sub(w.FirstAt) > rl.window {
		rl.clients[ip] = &clientWindow{Count: 1, FirstAt: now}
		return true, 0
	}

	if w.Count >= rl.maxRequests {
		return false, rl.window - now.Sub(w.FirstAt)
	}

	w.Count++
	return true, 0
}

// Middleware returns a gin handler that rejects requests over the budget
// with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := rl.allow(c.ClientIP())
		if !ok {
			seconds := int(retryAfter.Seconds()) + 1
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
