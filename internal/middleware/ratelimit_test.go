// ratelimit_test.go — Unit tests for the per-caller quota buckets.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/models"
)

// newLimiterContext builds a test context with a request attached so
// the middleware can write headers and a response.
func newLimiterContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/abc", nil)
	return c, w
}

// TestTakeDepletesAndRefills exercises the bucket math directly: the
// quota runs out after perHour requests and creeps back as time passes.
func TestTakeDepletesAndRefills(t *testing.T) {
	rl := NewRateLimiter(100)

	for i := 0; i < 2; i++ {
		allowed, _ := rl.take("key:k1", 2)
		if !allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if allowed, remaining := rl.take("key:k1", 2); allowed || remaining != 0 {
		t.Fatalf("third request allowed=%v remaining=%d, want denied with 0", allowed, remaining)
	}

	// Half an hour at 2/hour refills one token.
	rl.mu.Lock()
	rl.buckets["key:k1"].lastRefill = time.Now().Add(-30 * time.Minute)
	rl.mu.Unlock()

	if allowed, _ := rl.take("key:k1", 2); !allowed {
		t.Fatal("request after refill denied, want allowed")
	}
}

// TestRateLimitUsesKeyQuota verifies that an API key's own rate_limit
// column, not the service default, sizes its bucket.
func TestRateLimitUsesKeyQuota(t *testing.T) {
	rl := NewRateLimiter(100)
	handler := rl.RateLimit()

	key := &models.APIKey{ID: "k-small", RateLimit: 1}

	c, w := newLimiterContext(t)
	c.Set(string(apiKeyContextKey), key)
	handler(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q, want %q", got, "1")
	}

	c, w = newLimiterContext(t)
	c.Set(string(apiKeyContextKey), key)
	handler(c)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if !c.IsAborted() {
		t.Error("handler chain not aborted on quota exhaustion")
	}
}

// TestRateLimitMetersSessionUsers verifies that a session-authenticated
// listener is bucketed at the service default rather than bypassing the
// limiter.
func TestRateLimitMetersSessionUsers(t *testing.T) {
	rl := NewRateLimiter(1)
	handler := rl.RateLimit()

	user := &models.User{ID: "u1", Email: "listener@example.com"}

	c, w := newLimiterContext(t)
	c.Set(userContextKey, user)
	handler(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q, want default %q", got, "1")
	}

	c, w = newLimiterContext(t)
	c.Set(userContextKey, user)
	handler(c)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
}

// TestRateLimitSkipsUnauthenticated: with neither identity set the
// middleware neither meters nor blocks.
func TestRateLimitSkipsUnauthenticated(t *testing.T) {
	rl := NewRateLimiter(1)
	handler := rl.RateLimit()

	c, w := newLimiterContext(t)
	handler(c)
	if c.IsAborted() {
		t.Error("unauthenticated request was aborted")
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "" {
		t.Errorf("X-RateLimit-Limit = %q, want unset", got)
	}
}
