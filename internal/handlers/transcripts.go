// transcripts.go handles all transcript-related HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/models"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
)

// GetTranscript extracts (or returns the cached) transcript for a YouTube video.
// POST /api/v1/transcripts
//
// Request body:
//
//	{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
//	  or
//	{"video_id": "dQw4w9WgXcQ"}
//
// Extraction runs synchronously: the strategy chain usually answers within a
// few seconds, and the client gets the full transcript in one round trip.
// Repeat requests for the same video are served from the database cache.
func (h *Handler) GetTranscript(c *gin.Context) {
	// Parse request body
	// Go Pattern: ShouldBindJSON reads the request body and validates it
	// using the `binding` tags on the struct. If validation fails, it returns
	// an error (unlike Ruby's strong_params which silently ignores bad data).
	var req models.GetTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide either 'url' or 'video_id' in the request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	input := req.URL
	if input == "" {
		input = req.VideoID
	}

	row, cached, ok := h.fetchTranscript(c, input)
	if !ok {
		return // fetchTranscript already wrote the error response
	}

	resp, err := transcriptResponse(row, cached)
	if err != nil {
		log.Printf("❌ Corrupt segment data for video %s: %v", row.VideoID, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Stored transcript is corrupt",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCachedTranscript returns a previously extracted transcript without
// triggering extraction.
// GET /api/v1/transcripts/:videoId
func (h *Handler) GetCachedTranscript(c *gin.Context) {
	videoID, err := transcript.ResolveVideoID(c.Param("videoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_video_id",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	row, err := h.DB.GetTranscriptByVideoID(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No cached transcript for this video",
			Code:    http.StatusNotFound,
		})
		return
	}

	resp, err := transcriptResponse(row, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Stored transcript is corrupt",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckAvailability reports whether a transcript exists for a video.
// GET /api/v1/transcripts/:videoId/availability
//
// Unavailable is a normal answer, not an error — this endpoint returns 200
// with has_transcript=false rather than 404, so clients can probe cheaply.
func (h *Handler) CheckAvailability(c *gin.Context) {
	videoID, err := transcript.ResolveVideoID(c.Param("videoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_video_id",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// A cache hit answers without any network traffic.
	if _, err := h.DB.GetTranscriptByVideoID(c.Request.Context(), videoID); err == nil {
		c.JSON(http.StatusOK, models.AvailabilityResponse{
			VideoID:       videoID,
			HasTranscript: true,
		})
		return
	}

	available, reason, err := h.Extractor.CheckAvailability(c.Request.Context(), videoID)
	if err != nil {
		log.Printf("❌ Availability check failed for %s: %v", videoID, err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: "Could not determine transcript availability",
			Code:    http.StatusBadGateway,
		})
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		VideoID:       videoID,
		HasTranscript: available,
		Reason:        reason,
	})
}

// fetchTranscript returns the transcript row for the given URL or video ID,
// serving from cache when possible and extracting (then caching) otherwise.
// On failure it writes the error response and returns ok=false.
func (h *Handler) fetchTranscript(c *gin.Context, input string) (row *models.Transcript, cached bool, ok bool) {
	videoID, err := transcript.ResolveVideoID(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_video_id",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return nil, false, false
	}

	if existing, err := h.DB.GetTranscriptByVideoID(c.Request.Context(), videoID); err == nil {
		log.Printf("📦 Cache hit for video: %s", videoID)
		return existing, true, true
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Printf("⚠️  Cache lookup failed for %s: %v", videoID, err)
		// Fall through to extraction — a cache problem shouldn't block the request.
	}

	result, err := h.Extractor.GetTranscript(c.Request.Context(), videoID)
	if err != nil {
		h.writeExtractionError(c, err)
		return nil, false, false
	}

	segments, err := json.Marshal(result.Segments)
	if err != nil {
		log.Printf("❌ Failed to encode segments for %s: %v", videoID, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to encode transcript",
			Code:    http.StatusInternalServerError,
		})
		return nil, false, false
	}

	row = &models.Transcript{
		VideoID:   result.VideoID,
		Title:     result.Title,
		Segments:  segments,
		FullText:  result.FullText,
		WordCount: len(strings.Fields(result.FullText)),
		Strategy:  result.Strategy,
	}

	if err := h.DB.UpsertTranscript(c.Request.Context(), row); err != nil {
		// The client still gets their transcript; only the cache write failed.
		log.Printf("⚠️  Failed to cache transcript for %s: %v", videoID, err)
	}

	return row, false, true
}

// writeExtractionError maps pipeline errors onto HTTP responses: bad input is
// the client's fault (400), an exhausted strategy chain means the transcript
// doesn't exist as far as we can tell (404, with per-strategy details).
func (h *Handler) writeExtractionError(c *gin.Context, err error) {
	if errors.Is(err, transcript.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_video_id",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	var noTranscript *transcript.NoTranscriptError
	if errors.As(err, &noTranscript) {
		details := make([]models.ExtractionFailureDetail, 0, len(noTranscript.Failures))
		for _, f := range noTranscript.Failures {
			details = append(details, models.ExtractionFailureDetail{
				Strategy: f.Strategy,
				Kind:     string(f.Kind),
				Message:  f.Message,
			})
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "no_transcript",
			"message":  "No transcript could be extracted for this video",
			"code":     http.StatusNotFound,
			"video_id": noTranscript.VideoID,
			"failures": details,
		})
		return
	}

	log.Printf("❌ Extraction failed: %v", err)
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "extraction_error",
		Message: "Transcript extraction failed",
		Code:    http.StatusBadGateway,
	})
}

// transcriptResponse converts a database row to the API shape.
func transcriptResponse(row *models.Transcript, cached bool) (*models.TranscriptResponse, error) {
	var segments []models.SegmentResponse
	if err := json.Unmarshal(row.Segments, &segments); err != nil {
		return nil, err
	}

	return &models.TranscriptResponse{
		VideoID:  row.VideoID,
		Title:    row.Title,
		Segments: segments,
		FullText: row.FullText,
		Cached:   cached,
	}, nil
}
