// Package database handles PostgreSQL connections and queries.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard `database/sql`
// with convenient features like scanning rows into structs. Unlike an ORM
// (ActiveRecord, Sequelize), you write raw SQL — which gives you full control
// and helps you learn SQL properly.
//
// Go's database/sql has built-in connection pooling — you create one *sql.DB
// (or *sqlx.DB) at startup and share it across your entire application.
// It's safe for concurrent use by multiple goroutines.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver — the underscore import runs its init()

	"github.com/podpicker/podpicker-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods automatically,
// plus we can add our own. This is Go's version of inheritance — composition.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	// sqlx.Connect both opens the connection and pings the database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool for serverless PostgreSQL (Neon)
	// These settings prevent resource exhaustion and handle Neon's aggressive
	// connection timeouts (serverless PG closes idle connections quickly).
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// --- Transcript Cache Operations ---

// UpsertTranscript stores an extracted transcript, replacing any cached row
// for the same video. Extraction is expensive enough that losing a race and
// overwriting with an equivalent result is fine.
func (db *DB) UpsertTranscript(ctx context.Context, t *models.Transcript) error {
	query := `
		INSERT INTO transcripts (video_id, title, segments, full_text, word_count, strategy)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (video_id) DO UPDATE
		SET title = EXCLUDED.title, segments = EXCLUDED.segments,
			full_text = EXCLUDED.full_text, word_count = EXCLUDED.word_count,
			strategy = EXCLUDED.strategy, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return db.QueryRowContext(ctx, query,
		t.VideoID, t.Title, t.Segments, t.FullText, t.WordCount, t.Strategy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetTranscriptByVideoID returns the cached transcript for a video, or
// ErrNotFound when we have never extracted it.
func (db *DB) GetTranscriptByVideoID(ctx context.Context, videoID string) (*models.Transcript, error) {
	var t models.Transcript
	err := db.GetContext(ctx, &t, `SELECT * FROM transcripts WHERE video_id = $1`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	return &t, nil
}

// GetTranscript retrieves a single transcript by row ID.
func (db *DB) GetTranscript(ctx context.Context, id string) (*models.Transcript, error) {
	var t models.Transcript
	err := db.GetContext(ctx, &t, `SELECT * FROM transcripts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	return &t, nil
}

// --- Analysis Operations ---

// CreateAnalysis inserts a pending topic-analysis record.
func (db *DB) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	query := `
		INSERT INTO analyses (transcript_id, model_used, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return db.QueryRowContext(ctx, query,
		a.TranscriptID, a.ModelUsed, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetAnalysis retrieves a single analysis by ID.
func (db *DB) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	var a models.Analysis
	err := db.GetContext(ctx, &a, `SELECT * FROM analyses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analysis: %w", err)
	}
	return &a, nil
}

// UpdateAnalysis writes back status, topics, and error after processing.
func (db *DB) UpdateAnalysis(ctx context.Context, a *models.Analysis) error {
	query := `
		UPDATE analyses
		SET status = $2, topics = $3, error_message = $4, model_used = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return db.QueryRowContext(ctx, query,
		a.ID, a.Status, a.Topics, a.ErrorMessage, a.ModelUsed,
	).Scan(&a.UpdatedAt)
}

// ListAnalysesByTranscript returns all analyses for a transcript, newest first.
func (db *DB) ListAnalysesByTranscript(ctx context.Context, transcriptID string) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := db.SelectContext(ctx, &analyses,
		`SELECT * FROM analyses WHERE transcript_id = $1 ORDER BY created_at DESC`, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

// --- Saved Topic Operations ---

// CreateSavedTopic inserts a topic into a user's collection.
func (db *DB) CreateSavedTopic(ctx context.Context, st *models.SavedTopic) error {
	query := `
		INSERT INTO saved_topics (user_id, video_id, video_title, topic_title, summary, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		st.UserID, st.VideoID, st.VideoTitle, st.TopicTitle,
		st.Summary, st.StartTime, st.EndTime,
	).Scan(&st.ID, &st.CreatedAt)
}

// ListSavedTopics returns a user's saved topics, newest first.
func (db *DB) ListSavedTopics(ctx context.Context, userID string) ([]models.SavedTopic, error) {
	var topics []models.SavedTopic
	err := db.SelectContext(ctx, &topics,
		`SELECT * FROM saved_topics WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved topics: %w", err)
	}
	return topics, nil
}

// DeleteSavedTopic removes a saved topic, scoped to its owner.
func (db *DB) DeleteSavedTopic(ctx context.Context, id, userID string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM saved_topics WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved topic: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// --- API Key Operations ---

// CreateAPIKey inserts a new API key record.
func (db *DB) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (key_hash, key_prefix, name, active, rate_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		key.KeyHash, key.KeyPrefix, key.Name, key.Active, key.RateLimit,
	).Scan(&key.ID, &key.CreatedAt)
}

// GetAPIKeyByHash retrieves an API key by its hash (used during authentication).
func (db *DB) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var key models.APIKey
	err := db.GetContext(ctx, &key,
		`SELECT * FROM api_keys WHERE key_hash = $1 AND active = true`, hash)
	if err != nil {
		return nil, fmt.Errorf("invalid API key: %w", err)
	}
	return &key, nil
}

// UpdateAPIKeyLastUsed bumps the last_used_at timestamp.
func (db *DB) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

// ListAPIKeys returns all API keys (active and inactive).
func (db *DB) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := db.SelectContext(ctx, &keys, `SELECT * FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	return keys, nil
}

// RevokeAPIKey deactivates an API key.
func (db *DB) RevokeAPIKey(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `UPDATE api_keys SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
