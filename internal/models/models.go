// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// Unlike Ruby's ActiveRecord or JavaScript's Mongoose, Go models are just
// data containers — no ORM magic. The database package handles persistence.
//
// JSON tags (e.g., `json:"id"`) control how struct fields are serialized
// to/from JSON. The `db` tags work with sqlx for database column mapping.
package models

import (
	"encoding/json"
	"time"
)

// AnalysisStatus represents the processing state of a topic analysis.
// Go Pattern: We use string constants instead of enums (Go doesn't have enums).
// This is a common pattern — define a type alias and named constants.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Transcript is a cached YouTube transcript stored in the database.
// Segments holds the timestamped segment array as JSONB so repeat requests
// for the same video skip extraction entirely.
type Transcript struct {
	ID        string          `json:"id" db:"id"`
	VideoID   string          `json:"video_id" db:"video_id"`
	Title     string          `json:"title" db:"title"`
	Segments  json.RawMessage `json:"segments" db:"segments"` // JSONB — [{text, start, duration}]
	FullText  string          `json:"full_text" db:"full_text"`
	WordCount int             `json:"word_count" db:"word_count"`
	Strategy  string          `json:"strategy" db:"strategy"` // Which extraction strategy produced it
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Analysis is an AI topic-segmentation run over a cached transcript.
// Topics is the model's JSON output: an array of {title, summary, start, end}.
type Analysis struct {
	ID           string          `json:"id" db:"id"`
	TranscriptID string          `json:"transcript_id" db:"transcript_id"`
	ModelUsed    string          `json:"model_used" db:"model_used"`
	Status       AnalysisStatus  `json:"status" db:"status"`
	Topics       json.RawMessage `json:"topics,omitempty" db:"topics"` // JSONB, null until completed
	ErrorMessage string          `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// SavedTopic is a topic a user clipped from an analysis into their collection.
type SavedTopic struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	VideoID    string    `json:"video_id" db:"video_id"`
	VideoTitle string    `json:"video_title" db:"video_title"`
	TopicTitle string    `json:"topic_title" db:"topic_title"`
	Summary    string    `json:"summary" db:"summary"`
	StartTime  float64   `json:"start_time" db:"start_time"` // Seconds into the video
	EndTime    float64   `json:"end_time" db:"end_time"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// User is a registered account for the saved-topics collection.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // "-" means never serialize to JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// APIKey represents an API key for authentication.
// Note: We store the HASH of the key, never the raw key itself.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	KeyHash    string     `json:"-" db:"key_hash"`
	KeyPrefix  string     `json:"key_prefix" db:"key_prefix"` // First 8 chars for identification
	Name       string     `json:"name" db:"name"`
	Active     bool       `json:"active" db:"active"`
	RateLimit  int        `json:"rate_limit" db:"rate_limit"` // Requests per hour
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"` // Pointer = nullable
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API input/output vs database models.
// This keeps your API contract clean and independent of your database schema.

// GetTranscriptRequest is the JSON body for POST /api/v1/transcripts.
type GetTranscriptRequest struct {
	// Accept either a full YouTube URL or just the video ID
	URL     string `json:"url" binding:"required_without=VideoID"`
	VideoID string `json:"video_id" binding:"required_without=URL"`
}

// TranscriptResponse is the API shape of an extracted transcript.
type TranscriptResponse struct {
	VideoID  string            `json:"video_id"`
	Title    string            `json:"title"`
	Segments []SegmentResponse `json:"segments"`
	FullText string            `json:"full_text"`
	Cached   bool              `json:"cached"`
}

// SegmentResponse is one timestamped caption line. Times are in seconds.
type SegmentResponse struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// AvailabilityResponse is returned by the availability-check endpoint.
// Unavailable is NOT an error — the endpoint answers 200 either way.
type AvailabilityResponse struct {
	VideoID       string `json:"video_id"`
	HasTranscript bool   `json:"has_transcript"`
	Reason        string `json:"reason,omitempty"` // Why unavailable, when known
}

// CreateAnalysisRequest is the JSON body for POST /api/v1/analyses.
type CreateAnalysisRequest struct {
	URL     string `json:"url" binding:"required_without=VideoID"`
	VideoID string `json:"video_id" binding:"required_without=URL"`
	Model   string `json:"model,omitempty"` // Optional: override default model
}

// SaveTopicRequest is the JSON body for POST /api/v1/topics.
type SaveTopicRequest struct {
	VideoID    string  `json:"video_id" binding:"required"`
	VideoTitle string  `json:"video_title"`
	TopicTitle string  `json:"topic_title" binding:"required"`
	Summary    string  `json:"summary"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// CreateAPIKeyRequest is the JSON body for POST /api/v1/keys.
type CreateAPIKeyRequest struct {
	Name      string `json:"name" binding:"required"`
	RateLimit int    `json:"rate_limit,omitempty"` // 0 = use default
}

// CreateAPIKeyResponse includes the raw key — shown only once at creation time.
type CreateAPIKeyResponse struct {
	APIKey
	RawKey string `json:"raw_key"` // The actual API key — save it! Only shown once.
}

// --- Auth DTOs ---

// RegisterRequest is the JSON body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse returns the signed JWT plus the user it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractionFailureDetail reports one strategy's failure in a 404 response.
type ExtractionFailureDetail struct {
	Strategy string `json:"strategy"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Workers  int    `json:"workers"`
}
