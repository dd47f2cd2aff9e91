// Package middleware holds the HTTP middleware for the PodPicker API:
// API key auth for integrations, JWT sessions for listeners, per-caller
// rate limiting, and CORS for the web app.
package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/models"
)

// KeyPrefix starts every PodPicker API key. It lets callers recognize
// the credential in config files and lets us reject junk before a
// database round trip.
const KeyPrefix = "pp_"

const apiKeyHeader = "X-API-Key"

// contextKey is unexported so other packages can't collide with our
// context values.
type contextKey string

const apiKeyContextKey contextKey = "api_key"

// APIKeyAuth validates the X-API-Key header against the stored hash.
// Raw keys are never persisted; we hash the presented key and compare.
func APIKeyAuth(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader(apiKeyHeader)
		if rawKey == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing X-API-Key header. Create a key via POST /api/v1/keys",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		// Anything without our prefix can't be a PodPicker key, so skip
		// the hash and lookup for it.
		if !strings.HasPrefix(rawKey, KeyPrefix) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or revoked API key",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		apiKey, err := db.GetAPIKeyByHash(c.Request.Context(), HashAPIKey(rawKey))
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or revoked API key",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		c.Set(string(apiKeyContextKey), apiKey)
		touchLastUsed(db, apiKey.ID)
		c.Next()
	}
}

// touchLastUsed records key activity without blocking the request.
// It runs on a fresh context: the request context is cancelled as soon
// as the response is written, which would abort the update mid-flight.
func touchLastUsed(db *database.DB, keyID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.UpdateAPIKeyLastUsed(ctx, keyID)
	}()
}

// GetAPIKey retrieves the authenticated API key from the request
// context, or nil when the caller authenticated with a session token.
func GetAPIKey(c *gin.Context) *models.APIKey {
	val, exists := c.Get(string(apiKeyContextKey))
	if !exists {
		return nil
	}
	key, ok := val.(*models.APIKey)
	if !ok {
		return nil
	}
	return key
}

// HashAPIKey returns the hex SHA-256 of a raw API key. This is what
// the api_keys table stores and what lookups match against.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash)
}
