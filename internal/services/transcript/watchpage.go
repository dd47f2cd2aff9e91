package transcript

import (
	"context"
	"net/http"
	"strings"
)

// WatchPageStrategy fetches the regular watch page with a browser User-Agent
// and digs the caption-track list out of the embedded player JSON. Heavier
// than the direct endpoint (full HTML page) but survives some innertube
// outages, so it runs second.
type WatchPageStrategy struct {
	fetch *fetcher

	// watchURLBase is overridable for tests; empty means the real site.
	watchURLBase string
}

func NewWatchPageStrategy(fetch *fetcher) *WatchPageStrategy {
	return &WatchPageStrategy{fetch: fetch}
}

func (s *WatchPageStrategy) ID() string { return "watch_page" }

func (s *WatchPageStrategy) Attempt(ctx context.Context, videoID string) ([]Segment, *ExtractionFailure) {
	body, status, err := s.fetch.get(ctx, s.watchURL(videoID), browserUserAgent)
	if err != nil {
		if status == http.StatusTooManyRequests {
			return nil, failure(s.ID(), FailureRateLimited, "rate limited by watch page (429)")
		}
		return nil, failure(s.ID(), FailureNetworkError, "watch page fetch failed: %v", err)
	}

	pageHTML := string(body)

	// A recaptcha interstitial means bot detection tripped, not that the
	// video lacks captions.
	if strings.Contains(pageHTML, "class=\"g-recaptcha\"") {
		return nil, failure(s.ID(), FailureRateLimited, "watch page served a CAPTCHA challenge")
	}
	if !strings.Contains(pageHTML, "\"playabilityStatus\"") {
		return nil, failure(s.ID(), FailureNotFound, "video unavailable (no player data in page)")
	}
	if !strings.Contains(pageHTML, "\"captionTracks\"") {
		return nil, failure(s.ID(), FailureDisabled, "transcripts are disabled for this video")
	}

	tracks, err := ExtractCaptionTracks(pageHTML)
	if err != nil {
		return nil, failure(s.ID(), FailureParseError, "caption track list: %v", err)
	}

	track, err := SelectTrack(tracks)
	if err != nil {
		return nil, failure(s.ID(), FailureNotFound, "%v", err)
	}

	captionBody, status, err := s.fetch.get(ctx, track.BaseURL, browserUserAgent)
	if err != nil {
		if status == http.StatusTooManyRequests {
			return nil, failure(s.ID(), FailureRateLimited, "rate limited fetching caption track (429)")
		}
		return nil, failure(s.ID(), FailureNetworkError, "caption track fetch failed: %v", err)
	}

	segments := ParseTimedText(string(captionBody))
	if len(segments) == 0 && len(captionBody) > 0 {
		return nil, failure(s.ID(), FailureParseError, "caption payload did not match any known timed-text shape")
	}
	return segments, nil
}

func (s *WatchPageStrategy) watchURL(videoID string) string {
	if s.watchURLBase != "" {
		return s.watchURLBase + "/watch?v=" + videoID
	}
	return WatchURL(videoID)
}
