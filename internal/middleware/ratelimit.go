// ratelimit.go enforces per-caller hourly quotas on extraction routes.
//
// Every authenticated caller gets a token bucket that refills
// continuously over the hour. API keys carry their own quota in the
// api_keys.rate_limit column; session users share the service-wide
// default from DEFAULT_RATE_LIMIT. Buckets live in memory, so quotas
// reset on restart and are per-instance. Good enough for one box;
// a shared store would be needed before scaling out.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/models"
)

// bucket tracks one caller's remaining quota. tokens refills at
// perHour/3600 per second up to perHour.
type bucket struct {
	tokens     float64
	perHour    int
	lastRefill time.Time
}

// RateLimiter hands out and refills buckets keyed by caller identity.
type RateLimiter struct {
	mu             sync.Mutex
	buckets        map[string]*bucket
	defaultPerHour int
}

// NewRateLimiter creates a limiter. defaultPerHour is the quota applied
// to callers without a per-key limit, i.e. session-authenticated users.
// It also starts the background sweep that drops idle buckets.
func NewRateLimiter(defaultPerHour int) *RateLimiter {
	rl := &RateLimiter{
		buckets:        make(map[string]*bucket),
		defaultPerHour: defaultPerHour,
	}
	go rl.sweep()
	return rl
}

// RateLimit returns the quota middleware. It runs after DualAuth, so
// one of the two identities is always set; if neither is (a route
// outside the protected group), the request passes through unmetered.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var callerID string
		perHour := rl.defaultPerHour

		switch {
		case GetAPIKey(c) != nil:
			key := GetAPIKey(c)
			callerID = "key:" + key.ID
			perHour = key.RateLimit
		case GetUser(c) != nil:
			callerID = "user:" + GetUser(c).ID
		default:
			c.Next()
			return
		}

		allowed, remaining := rl.take(callerID, perHour)
		c.Header("X-RateLimit-Limit", strconv.Itoa(perHour))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: "Hourly request quota exceeded. Quota refills continuously",
				Code:    http.StatusTooManyRequests,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// take consumes one token from the caller's bucket, creating a full
// bucket on first sight. It reports whether the request may proceed
// and how many whole tokens remain.
func (rl *RateLimiter) take(callerID string, perHour int) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[callerID]
	if !ok {
		b = &bucket{tokens: float64(perHour), perHour: perHour, lastRefill: now}
		rl.buckets[callerID] = b
	}

	// Refill for the time elapsed since the last request. A changed
	// per-key quota takes effect here too.
	b.perHour = perHour
	b.tokens += now.Sub(b.lastRefill).Seconds() * float64(perHour) / 3600.0
	if b.tokens > float64(perHour) {
		b.tokens = float64(perHour)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// sweep drops buckets idle for over an hour. An idle bucket is full
// again anyway, so forgetting it loses nothing.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for id, b := range rl.buckets {
			if time.Since(b.lastRefill) > time.Hour {
				delete(rl.buckets, id)
			}
		}
		rl.mu.Unlock()
	}
}
