package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// CaptionTrack is one entry in the watch page's embedded caption-track list.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// ExtractCaptionTracks locates the `"captionTracks":[...]` array embedded in
// watch-page HTML/JS and decodes it.
//
// The array sits inside megabytes of surrounding script, so we find the key
// and scan brackets from the opening `[` to its balanced close, skipping
// bracket characters inside JSON strings (track names can contain them). If
// bracket scanning runs off the end of the input — truncated page — we fall
// back to scanning for the next top-level `,"` key as the array terminator.
// Input that is still inconclusive after the fallback is a parse error, not
// an excuse for further heuristics.
func ExtractCaptionTracks(pageHTML string) ([]CaptionTrack, error) {
	const marker = `"captionTracks":`
	startIdx := strings.Index(pageHTML, marker)
	if startIdx == -1 {
		return nil, fmt.Errorf("captionTracks not found in page")
	}

	arrStart := startIdx + len(marker)
	// Skip any whitespace between the colon and the bracket.
	for arrStart < len(pageHTML) && (pageHTML[arrStart] == ' ' || pageHTML[arrStart] == '\n') {
		arrStart++
	}
	if arrStart >= len(pageHTML) || pageHTML[arrStart] != '[' {
		return nil, fmt.Errorf("expected JSON array after captionTracks key")
	}

	raw, ok := scanBalanced(pageHTML[arrStart:])
	if !ok {
		// Truncated or pathological input: take everything up to the next
		// top-level key and let the JSON decoder have the final word.
		raw, ok = scanToNextTopLevelKey(pageHTML[arrStart:])
		if !ok {
			return nil, fmt.Errorf("unbalanced captionTracks array")
		}
	}

	var tracks []CaptionTrack
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode captionTracks: %w", err)
	}
	return tracks, nil
}

// scanBalanced returns the prefix of s spanning one balanced JSON array,
// tracking string and escape state so brackets inside strings don't count.
func scanBalanced(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// nextKeyRegex matches a `],"someKey":` sequence — the closing bracket of
// the track array followed by the next sibling key in the renderer object.
var nextKeyRegex = regexp.MustCompile(`\],"[a-zA-Z]+":`)

// scanToNextTopLevelKey is the fallback terminator search for input where
// bracket scanning was inconclusive.
func scanToNextTopLevelKey(s string) (string, bool) {
	loc := nextKeyRegex.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[:loc[0]+1], true
}

// SelectTrack picks the preferred caption track: exact "en" first, then an
// English regional variant (en-US, en-GB, ...), then whatever is first.
func SelectTrack(tracks []CaptionTrack) (*CaptionTrack, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks available")
	}
	for i := range tracks {
		if tracks[i].LanguageCode == "en" {
			return &tracks[i], nil
		}
	}
	for i := range tracks {
		if strings.HasPrefix(tracks[i].LanguageCode, "en-") {
			return &tracks[i], nil
		}
	}
	return &tracks[0], nil
}
