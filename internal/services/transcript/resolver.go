package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

// videoIDShape is the canonical shape of a YouTube video ID.
var videoIDShape = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// urlPatterns are tried in order; the first well-formed match wins.
// Covers watch, short, embed, /v/, shorts, and live URL forms.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/v/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/live/)([A-Za-z0-9_-]{11})`),
}

// ResolveVideoID extracts the canonical 11-character video ID from a YouTube
// URL or a bare ID. Pure function, no side effects.
//
// Supports:
//   - https://www.youtube.com/watch?v=VIDEO_ID (extra query params fine)
//   - https://youtu.be/VIDEO_ID
//   - https://youtube.com/embed/VIDEO_ID, /v/, /shorts/, /live/
//   - Just the video ID itself (11 characters)
//
// Fails with ErrInvalidInput when nothing matches or the matched substring
// fails the ID shape check.
func ResolveVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	if videoIDShape.MatchString(input) {
		return input, nil
	}

	for _, pattern := range urlPatterns {
		matches := pattern.FindStringSubmatch(input)
		if len(matches) >= 2 && videoIDShape.MatchString(matches[1]) {
			return matches[1], nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidInput, input)
}

// WatchURL builds the canonical watch-page URL for a video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
