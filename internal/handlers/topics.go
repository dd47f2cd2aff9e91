// topics.go handles the saved-topics collection endpoints.
// All routes here require a JWT — topics are saved per user.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/middleware"
	"github.com/podpicker/podpicker-api/internal/models"
)

// SaveTopic adds a topic to the authenticated user's collection.
// POST /api/v1/topics
//
// Request body:
//
//	{
//	  "video_id": "dQw4w9WgXcQ",
//	  "video_title": "Never Gonna Give You Up",
//	  "topic_title": "The key change",
//	  "summary": "Discussion of the final chorus modulation",
//	  "start_time": 181.5,
//	  "end_time": 212.0
//	}
func (h *Handler) SaveTopic(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	var req models.SaveTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "video_id and topic_title are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	topic := &models.SavedTopic{
		UserID:     user.ID,
		VideoID:    req.VideoID,
		VideoTitle: req.VideoTitle,
		TopicTitle: req.TopicTitle,
		Summary:    req.Summary,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}

	if err := h.DB.CreateSavedTopic(c.Request.Context(), topic); err != nil {
		log.Printf("❌ Failed to save topic: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to save topic",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, topic)
}

// ListSavedTopics returns the authenticated user's saved topics, newest first.
// GET /api/v1/topics
func (h *Handler) ListSavedTopics(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	topics, err := h.DB.ListSavedTopics(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list saved topics",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if topics == nil {
		topics = []models.SavedTopic{}
	}

	c.JSON(http.StatusOK, topics)
}

// DeleteSavedTopic removes a topic from the user's collection.
// DELETE /api/v1/topics/:id
//
// The delete is scoped to the authenticated user, so one user can never
// remove another's topics even with a guessed ID.
func (h *Handler) DeleteSavedTopic(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.DB.DeleteSavedTopic(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Saved topic not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete saved topic",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saved topic deleted"})
}
