// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/handlers"
	"github.com/podpicker/podpicker-api/internal/middleware"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
	"github.com/podpicker/podpicker-api/internal/services/worker"
)

// Setup creates and configures the Gin router with all routes.
// defaultRateLimit is the hourly quota applied to session users and to
// newly created keys that don't ask for their own.
func Setup(db *database.DB, wp *worker.Pool, extractor transcript.Extractor, jwtSecret, adminAPIKey string, defaultRateLimit int, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(allowedOrigins))

	h := handlers.NewHandler(db, wp, extractor, jwtSecret, adminAPIKey, defaultRateLimit)
	rateLimiter := middleware.NewRateLimiter(defaultRateLimit)

	// --- Public Routes (no auth required) ---
	r.GET("/api/v1/health", h.HealthCheck)
	r.POST("/api/v1/keys", h.CreateAPIKey) // Gated by X-Admin-Key when configured

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Auth Routes — public ---
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)

	// --- JWT-protected routes (saved-topics collection is per user) ---
	jwtProtected := r.Group("/api/v1")
	jwtProtected.Use(middleware.JWTAuth(db, jwtSecret))
	{
		jwtProtected.GET("/auth/me", h.GetMe)
		jwtProtected.POST("/auth/refresh", h.RefreshToken)
		jwtProtected.GET("/topics", h.ListSavedTopics)
		jwtProtected.POST("/topics", h.SaveTopic)
		jwtProtected.DELETE("/topics/:id", h.DeleteSavedTopic)
	}

	// --- Protected Routes (API key OR JWT) ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.DualAuth(db, jwtSecret))
	protected.Use(rateLimiter.RateLimit())
	{
		// Transcript endpoints
		protected.POST("/transcripts", h.GetTranscript)
		protected.GET("/transcripts/:videoId", h.GetCachedTranscript)
		protected.GET("/transcripts/:videoId/availability", h.CheckAvailability)
		protected.GET("/transcripts/:videoId/export", h.ExportTranscript)
		protected.GET("/transcripts/:videoId/analyses", h.ListAnalysesByVideo)

		// Topic analysis endpoints
		protected.POST("/analyses", h.CreateAnalysis)
		protected.GET("/analyses/:id", h.GetAnalysis)

		// API key management
		protected.GET("/keys", h.ListAPIKeys)
		protected.DELETE("/keys/:id", h.RevokeAPIKey)
	}

	return r
}
