package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const thirdPartyHost = "youtube-transcript-api.p.rapidapi.com"

// thirdPartyResponse is the transcript API's JSON shape. Offsets arrive in
// seconds already; no unit conversion needed here.
type thirdPartyResponse struct {
	Title      string `json:"title"`
	Transcript []struct {
		Text     string  `json:"text"`
		Start    float64 `json:"start"`
		Duration float64 `json:"duration"`
	} `json:"transcript"`
}

// ThirdPartyStrategy delegates to a hosted transcript-extraction API. It is
// the most expensive option (metered) and the most dependent, so it runs
// last. Without an API key configured it fails fast with a clear message —
// no HTTP call is attempted.
type ThirdPartyStrategy struct {
	fetch  *fetcher
	apiKey string

	// baseURL is overridable for tests; empty means the real API.
	baseURL string
}

func NewThirdPartyStrategy(fetch *fetcher, apiKey string) *ThirdPartyStrategy {
	return &ThirdPartyStrategy{fetch: fetch, apiKey: apiKey}
}

func (s *ThirdPartyStrategy) ID() string { return "third_party_api" }

func (s *ThirdPartyStrategy) Attempt(ctx context.Context, videoID string) ([]Segment, *ExtractionFailure) {
	if s.apiKey == "" {
		return nil, failure(s.ID(), FailureNetworkError, "RAPIDAPI_KEY not configured; skipping third-party API")
	}

	url := fmt.Sprintf("https://%s/api/transcript?video_id=%s", thirdPartyHost, videoID)
	if s.baseURL != "" {
		url = fmt.Sprintf("%s/api/transcript?video_id=%s", s.baseURL, videoID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, failure(s.ID(), FailureNetworkError, "failed to create request: %v", err)
	}
	req.Header.Set("X-RapidAPI-Key", s.apiKey)
	req.Header.Set("X-RapidAPI-Host", thirdPartyHost)

	resp, err := s.fetch.client.Do(req)
	if err != nil {
		return nil, failure(s.ID(), FailureNetworkError, "third-party API fetch failed: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusTooManyRequests:
		return nil, failure(s.ID(), FailureRateLimited, "third-party API rate limit exceeded (429)")
	case http.StatusNotFound:
		return nil, failure(s.ID(), FailureNotFound, "third-party API has no transcript for this video")
	default:
		return nil, failure(s.ID(), FailureNetworkError, "third-party API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure(s.ID(), FailureNetworkError, "failed to read third-party response: %v", err)
	}

	var parsed thirdPartyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, failure(s.ID(), FailureParseError, "failed to decode third-party response: %v", err)
	}

	segments := make([]Segment, 0, len(parsed.Transcript))
	for _, entry := range parsed.Transcript {
		// Some responses pad entries with blank or whitespace-only text.
		// Keeping those would leak empty segments into the full text.
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    entry.Start,
			Duration: entry.Duration,
		})
	}
	return segments, nil
}
