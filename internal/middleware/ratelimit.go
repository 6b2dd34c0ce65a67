package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/cache"
)

const (
	// DefaultRateLimitRequests and DefaultRateLimitWindow apply when the
	// limiter is built without explicit settings.
	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 60 * time.Second
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter is a fixed-window request counter keyed by client IP. The
// count resets when a request arrives after the window start plus the
// window length; requests up to and including the limit are admitted.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*rateWindow
	requests int
	window   time.Duration
	clock    cache.Clock
}

// NewRateLimiter creates a limiter with the given budget. Non-positive
// settings fall back to the defaults.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = DefaultRateLimitRequests
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RateLimiter{
		windows:  make(map[string]*rateWindow),
		requests: requests,
		window:   window,
		clock:    time.Now,
	}
}

// NewRateLimiterWithClock is NewRateLimiter with an injected clock for
// deterministic tests.
func NewRateLimiterWithClock(requests int, window time.Duration, clock cache.Clock) *RateLimiter {
	limiter := NewRateLimiter(requests, window)
	limiter.clock = clock
	return limiter
}

// Allow records one request for key and reports whether it fits the
// current window. The second return is the remaining window on rejection.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.clock()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	win, ok := rl.windows[key]
	if !ok || now.Sub(win.start) >= rl.window {
		rl.windows[key] = &rateWindow{start: now, count: 1}
		return true, 0
	}

	win.count++
	if win.count > rl.requests {
		return false, win.start.Add(rl.window).Sub(now)
	}
	return true, 0
}

// Middleware enforces the limit per client IP, answering 429 with a
// Retry-After header when the budget is spent.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate limit exceeded",
				"message": fmt.Sprintf("Too many requests, retry in %ds", seconds),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
