// analyses.go handles topic-analysis HTTP endpoints.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/podpicker/podpicker-api/internal/models"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
	"github.com/podpicker/podpicker-api/internal/services/worker"
)

// uuidParam reads a path parameter and validates it's a well-formed UUID.
// A malformed ID gets a 400 without touching the database. On failure the
// error response is already written.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "'" + name + "' must be a valid UUID",
			Code:    http.StatusBadRequest,
		})
		return "", false
	}
	return raw, true
}

// CreateAnalysis kicks off AI topic segmentation for a video.
// POST /api/v1/analyses
//
// Request body:
//
//	{
//	  "url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
//	  "model": "openai/gpt-4o"  // optional: override default model
//	}
//
// The transcript is fetched (or served from cache) synchronously; the LLM
// call runs in the background via the worker pool. The client polls
// GET /analyses/:id until status is "completed" or "failed".
func (h *Handler) CreateAnalysis(c *gin.Context) {
	var req models.CreateAnalysisRequest
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

	// Make sure we have a transcript before queueing LLM work — there's no
	// point burning a job slot on a video with no captions.
	row, _, ok := h.fetchTranscript(c, input)
	if !ok {
		return
	}

	analysis := &models.Analysis{
		TranscriptID: row.ID,
		ModelUsed:    req.Model,
		Status:       models.StatusPending,
	}

	if err := h.DB.CreateAnalysis(c.Request.Context(), analysis); err != nil {
		log.Printf("❌ Failed to create analysis record: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create analysis record",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	payload, _ := json.Marshal(worker.AnalysisPayload{
		TranscriptID: row.ID,
		Model:        req.Model,
	})

	job := worker.Job{
		ID:        analysis.ID,
		Type:      worker.JobTopicAnalysis,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	// Go Pattern: We respond immediately with the pending record and process
	// in the background. This is the async job pattern — the client can poll
	// GET /analyses/:id to check status.
	if err := h.Worker.Submit(job); err != nil {
		log.Printf("⚠️  Failed to queue analysis job: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "queue_full",
			Message: "Job queue is full, try again later",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	// Return 202 Accepted — the work is happening in the background
	c.JSON(http.StatusAccepted, analysis)
}

// GetAnalysis retrieves a single analysis by ID.
// GET /api/v1/analyses/:id
func (h *Handler) GetAnalysis(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	analysis, err := h.DB.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Analysis not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ListAnalysesByVideo returns all analyses for a video's cached transcript.
// GET /api/v1/transcripts/:videoId/analyses
func (h *Handler) ListAnalysesByVideo(c *gin.Context) {
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

	analyses, err := h.DB.ListAnalysesByTranscript(c.Request.Context(), row.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list analyses",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Ensure we return an empty array, not null
	if analyses == nil {
		analyses = []models.Analysis{}
	}

	c.JSON(http.StatusOK, analyses)
}
