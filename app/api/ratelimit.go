package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Clients idle for longer than this lose their bucket.
const limiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per client per minute with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*clientLimiter),
		rate:      rate.Limit(float64(perMinute) / 60),
		burst:     max(burst, 1),
		ttl:       limiterTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.ttl {
		rl.sweep(now)
	}

	client, exists := rl.limiters[key]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = client
	}
	client.lastSeen = now
	rl.mu.Unlock()

	return client.limiter.AllowN(now, 1)
}

// sweep drops clients not seen within the ttl. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, client := range rl.limiters {
		if now.Sub(client.lastSeen) >= rl.ttl {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// Middleware limits requests for which applies returns true. A nil applies
// limits every request.
func (rl *RateLimiter) Middleware(applies func(c *gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if applies != nil && !applies(c) {
			c.Next()
			return
		}

		if !rl.Allow(c.ClientIP()) {
			slog.Warn("Rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Message: "Too many refresh requests"})
			return
		}

		c.Next()
	}
}
