// Package transcript turns a YouTube URL or video ID into an ordered list of
// timed caption segments.
//
// YouTube has no official transcript API, so extraction is a chain of
// independent strategies tried in order until one produces segments: the
// innertube player endpoint first, the watch page's embedded caption-track
// list second, and a third-party transcript API last. Each strategy reports a
// classified failure so the caller can tell "no captions exist" apart from
// "we got rate limited".
//
// Go Pattern: This package defines small interfaces (Strategy) satisfied
// implicitly, making strategies trivial to fake in tests.
package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when the input is not a YouTube URL or video ID.
// No network calls are attempted once input validation fails.
var ErrInvalidInput = errors.New("invalid YouTube URL or video ID")

// Segment is one timed caption line. Start and Duration are in seconds,
// regardless of what units the upstream endpoint reported.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Result is a fully assembled transcript.
// Invariant: FullText is the segment texts joined with single spaces.
type Result struct {
	VideoID  string    `json:"video_id"`
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
	FullText string    `json:"full_text"`
	Strategy string    `json:"strategy"` // ID of the strategy that produced the segments
}

// FailureKind classifies why a single strategy failed.
type FailureKind string

const (
	// FailureNotFound means the upstream reports no captions for this video.
	FailureNotFound FailureKind = "not_found"
	// FailureDisabled means the upstream explicitly signals captions are off.
	FailureDisabled FailureKind = "disabled"
	// FailureRateLimited means a 429, CAPTCHA, or other bot-detection signal.
	FailureRateLimited FailureKind = "rate_limited"
	// FailureParseError means the payload arrived but its shape was unrecognized.
	FailureParseError FailureKind = "parse_error"
	// FailureNetworkError means a transport failure or timeout.
	FailureNetworkError FailureKind = "network_error"
)

// ExtractionFailure records one strategy's classified failure.
type ExtractionFailure struct {
	Strategy string      `json:"strategy"`
	Kind     FailureKind `json:"kind"`
	Message  string      `json:"message"`
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: %s (%s)", f.Strategy, f.Message, f.Kind)
}

// failure is a small constructor to keep strategy code readable.
func failure(strategy string, kind FailureKind, format string, args ...any) *ExtractionFailure {
	return &ExtractionFailure{
		Strategy: strategy,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NoTranscriptError means every strategy in the chain failed. It carries each
// strategy's failure so the web layer can show a specific reason instead of a
// generic error.
type NoTranscriptError struct {
	VideoID  string
	Failures []ExtractionFailure
}

func (e *NoTranscriptError) Error() string {
	reasons := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		reasons[i] = fmt.Sprintf("%s=%s", f.Strategy, f.Kind)
	}
	return fmt.Sprintf("no transcript available for %s (%s)", e.VideoID, strings.Join(reasons, ", "))
}

// joinSegmentText builds the FullText field: segment texts joined by single spaces.
func joinSegmentText(segments []Segment) string {
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}
