// export.go handles transcript export in multiple formats.
//
// Supported formats:
//   - txt  — Plain text transcript
//   - md   — Markdown with metadata header
//   - srt  — SubRip subtitle format with real segment timestamps
//   - json — Full JSON with all metadata
//
// Go Pattern: Each export format is its own function. This makes it easy
// to add new formats later — just add a case to the switch and a new
// formatter function. This is the "Strategy pattern" without the ceremony.
package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podpicker/podpicker-api/internal/models"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
)

// ExportTranscript exports a cached transcript in the requested format.
// GET /api/v1/transcripts/:videoId/export?format=txt|md|srt|json
//
// Response headers are set for file download:
//   - Content-Type: appropriate MIME type
//   - Content-Disposition: attachment with filename
func (h *Handler) ExportTranscript(c *gin.Context) {
	videoID, err := transcript.ResolveVideoID(c.Param("videoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_video_id",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	format := c.DefaultQuery("format", "txt")

	// Validate format before doing any database work
	validFormats := map[string]bool{"txt": true, "md": true, "srt": true, "json": true}
	if !validFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: txt, md, srt, json",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Get the cached transcript
	t, err := h.DB.GetTranscriptByVideoID(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No cached transcript for this video",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Generate a clean filename from the title
	// Go Pattern: We sanitize the title for use in filenames. This prevents
	// issues with special characters in Content-Disposition headers.
	filename := sanitizeFilename(t.Title)
	if filename == "" {
		filename = t.VideoID
	}

	// Route to the appropriate formatter
	// Go Pattern: Switch on the format string — clean and extensible.
	switch format {
	case "txt":
		exportTXT(c, t, filename)
	case "md":
		exportMarkdown(c, t, filename)
	case "srt":
		exportSRT(c, t, filename)
	case "json":
		exportJSON(c, t, filename)
	}
}

// exportTXT returns the transcript as plain text.
func exportTXT(c *gin.Context, t *models.Transcript, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(t.FullText))
}

// exportMarkdown returns the transcript as Markdown with a metadata header.
func exportMarkdown(c *gin.Context, t *models.Transcript, filename string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", t.Title))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Video | https://www.youtube.com/watch?v=%s |\n", t.VideoID))
	sb.WriteString(fmt.Sprintf("| Words | %d |\n", t.WordCount))
	sb.WriteString(fmt.Sprintf("| Source | %s |\n", t.Strategy))
	sb.WriteString(fmt.Sprintf("| Extracted | %s |\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n---\n\n")
	sb.WriteString("## Transcript\n\n")
	sb.WriteString(t.FullText)
	sb.WriteString("\n")

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(sb.String()))
}

// exportSRT returns the transcript in SubRip subtitle format.
//
// Each caption segment already carries its start time and duration from
// extraction, so the cues use the video's real timing — no estimation needed.
func exportSRT(c *gin.Context, t *models.Transcript, filename string) {
	var segments []models.SegmentResponse
	if err := json.Unmarshal(t.Segments, &segments); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Stored transcript is corrupt",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	var sb strings.Builder
	if len(segments) == 0 {
		sb.WriteString("1\n00:00:00,000 --> 00:00:01,000\n(empty transcript)\n\n")
	}

	for i, seg := range segments {
		start := seg.Start
		end := seg.Start + seg.Duration
		if end <= start {
			end = start + 1 // Zero-duration segments still get a visible cue
		}

		// SRT format: index, timestamp range, text, blank line
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(start), formatSRTTime(end)))
		sb.WriteString(seg.Text)
		sb.WriteString("\n\n")
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.srt"`, filename))
	c.Data(http.StatusOK, "text/srt; charset=utf-8", []byte(sb.String()))
}

// exportJSON returns the full transcript data as JSON.
// This includes all metadata — useful for programmatic consumption.
func exportJSON(c *gin.Context, t *models.Transcript, filename string) {
	// Build a clean export structure (we control what's included)
	exportData := map[string]interface{}{
		"id":           t.ID,
		"video_id":     t.VideoID,
		"youtube_url":  "https://www.youtube.com/watch?v=" + t.VideoID,
		"title":        t.Title,
		"segments":     t.Segments,
		"full_text":    t.FullText,
		"word_count":   t.WordCount,
		"reading_time": fmt.Sprintf("%d min", int(math.Ceil(float64(t.WordCount)/200.0))),
		"strategy":     t.Strategy,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}

	jsonBytes, err := json.MarshalIndent(exportData, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate JSON export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
}

// --- Helper Functions ---

// formatSRTTime converts seconds to SRT timestamp format: HH:MM:SS,mmm
func formatSRTTime(seconds float64) string {
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	ms := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// sanitizeFilename removes characters that aren't safe for filenames.
// Go Pattern: Keep it simple — replace unsafe characters with hyphens
// and trim the result. We don't need a full filesystem-safe sanitizer
// since this is just for the Content-Disposition header.
func sanitizeFilename(name string) string {
	// Replace common unsafe characters
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
