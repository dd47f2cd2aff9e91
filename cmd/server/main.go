// Package main is the entry point for the PodPicker API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/podpicker/podpicker-api/internal/config"
	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/router"
	"github.com/podpicker/podpicker-api/internal/services/topics"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
	"github.com/podpicker/podpicker-api/internal/services/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PodPicker API %s starting...", Version)

	// Load .env if present — real environment variables still win.
	if err := godotenv.Load(); err == nil {
		log.Println("📝 Loaded environment from .env")
	}

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, workers=%d, gin_mode=%s", cfg.Port, cfg.WorkerCount, cfg.GinMode)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Run migrations
	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Step 3: Create Services
	extractor := transcript.NewService(cfg.YouTubeProxy, cfg.RapidAPIKey)

	if cfg.YouTubeProxy.Enabled() {
		log.Println("✅ YouTube proxy configured (residential proxy for caption requests)")
	} else {
		log.Println("⚠️  No YouTube proxy configured (set PROXY_HOST/PROXY_PORT for reliable YouTube access)")
	}

	if cfg.RapidAPIKey != "" {
		log.Println("✅ Third-party transcript fallback enabled")
	} else {
		log.Println("⚠️  Third-party transcript fallback disabled (set RAPIDAPI_KEY to enable)")
	}

	segmenter := topics.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	if cfg.OpenRouterAPIKey != "" {
		log.Printf("✅ Topic segmentation enabled (model: %s)", cfg.OpenRouterModel)
	} else {
		log.Println("⚠️  Topic segmentation disabled (set OPENROUTER_API_KEY to enable)")
	}

	// Step 4: Create and Start Worker Pool
	wp := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, db, segmenter)
	wp.Start()
	defer wp.Stop()

	// Log admin API key status
	if cfg.AdminAPIKey != "" {
		log.Println("✅ Admin API key configured (API key creation protected)")
	} else {
		log.Println("⚠️  No admin API key set (API key creation is open — set ADMIN_API_KEY in production)")
	}

	// Step 5: Setup HTTP Router
	r := router.Setup(db, wp, extractor, cfg.JWTSecret, cfg.AdminAPIKey, cfg.DefaultRateLimit, cfg.AllowedOrigins)

	// Step 6: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
