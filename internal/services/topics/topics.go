// Package topics handles AI-powered topic segmentation via OpenRouter.
//
// OpenRouter provides a unified API for multiple LLM providers (OpenAI,
// Anthropic, Google, etc.) using a single API key. The request format
// follows the OpenAI chat completions standard. The model receives the
// transcript with coarse timestamps and returns a JSON array of topics,
// each with a title, summary, and start/end offsets in seconds.
package topics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/podpicker/podpicker-api/internal/services/transcript"
)

// Service handles topic segmentation.
type Service struct {
	apiKey     string
	model      string
	httpClient *http.Client

	// baseURL is overridable for tests; empty means the real API.
	baseURL string
}

// New creates a new topics service.
func New(apiKey, defaultModel string) *Service {
	return &Service{
		apiKey: apiKey,
		model:  defaultModel,
		// Go Pattern: Always configure timeouts on HTTP clients.
		// The default http.Client has NO timeout — requests can hang forever!
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // LLMs can be slow
		},
	}
}

// Topic is one segment of the video as identified by the model.
// Start and End are in seconds, aligned to transcript segment boundaries
// as closely as the model manages.
type Topic struct {
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Result holds the segmentation output.
type Result struct {
	Topics []Topic `json:"topics"`
	Model  string  `json:"model"`
}

// --- OpenRouter API types ---
// These match the OpenAI chat completions format used by OpenRouter.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Segment splits a transcript into topics.
func (s *Service) Segment(ctx context.Context, t *transcript.Result, modelOverride string) (*Result, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key not configured; set OPENROUTER_API_KEY")
	}

	model := s.model
	if modelOverride != "" {
		model = modelOverride
	}

	prompt := buildPrompt(t)

	log.Printf("🤖 Segmenting topics for %s using %s", t.VideoID, model)

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a precise content analyst. You split video transcripts into coherent topic segments with accurate timestamps.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://github.com/podpicker/podpicker-api")
	req.Header.Set("X-Title", "PodPicker")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenRouter request failed: %w", err)
	}
	defer resp.Body.Close() // Go Pattern: ALWAYS close response bodies!

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenRouter returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("OpenRouter error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	topics, err := parseTopics(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &Result{Topics: topics, Model: model}, nil
}

func (s *Service) endpoint() string {
	if s.baseURL != "" {
		return s.baseURL + "/api/v1/chat/completions"
	}
	return "https://openrouter.ai/api/v1/chat/completions"
}

// buildPrompt renders the transcript with minute-level timestamps so the
// model can anchor topic boundaries.
func buildPrompt(t *transcript.Result) string {
	var sb strings.Builder
	lastMarker := -1.0
	for _, seg := range t.Segments {
		// Emit a timestamp marker roughly every 30 seconds of content.
		if lastMarker < 0 || seg.Start-lastMarker >= 30 {
			fmt.Fprintf(&sb, "\n[%s] ", formatTimestamp(seg.Start))
			lastMarker = seg.Start
		}
		sb.WriteString(seg.Text)
		sb.WriteString(" ")
	}

	// Truncate very long transcripts to avoid token limits
	text := sb.String()
	const maxLen = 60000
	if len(text) > maxLen {
		text = text[:maxLen] + "\n\n[Transcript truncated due to length...]"
	}

	return fmt.Sprintf(`Split the following YouTube video transcript ("%s") into topic segments.

**Important:** Respond with valid JSON in this exact format:
{
  "topics": [
    {"title": "Topic title", "summary": "One-sentence summary", "start": 0, "end": 125.5}
  ]
}

Start and end are offsets in seconds. Topics must cover the transcript in order without overlapping.

**Transcript:**
%s`, t.Title, text)
}

// formatTimestamp renders seconds as M:SS or H:MM:SS.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// parseTopics extracts the JSON topic array from the AI response.
// Models sometimes wrap the JSON in markdown fences, so when a direct parse
// fails we scan for the outermost { ... } block and try again.
func parseTopics(content string) ([]Topic, error) {
	var structured struct {
		Topics []Topic `json:"topics"`
	}

	if err := json.Unmarshal([]byte(content), &structured); err == nil && len(structured.Topics) > 0 {
		return structured.Topics, nil
	}

	start := -1
	end := -1
	braceCount := 0
	for i, c := range content {
		if c == '{' {
			if braceCount == 0 {
				start = i
			}
			braceCount++
		} else if c == '}' {
			braceCount--
			if braceCount == 0 {
				end = i + 1
				break
			}
		}
	}

	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end]), &structured); err == nil && len(structured.Topics) > 0 {
			return structured.Topics, nil
		}
	}

	return nil, fmt.Errorf("model response contained no parseable topic list")
}
