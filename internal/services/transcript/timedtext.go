package transcript

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// YouTube delivers captions in two timed-text shapes depending on the
// endpoint and requested format:
//
//	<text start="1.36" dur="1.68">caption line</text>   — seconds
//	<p t="1360" d="1680">caption line</p>               — milliseconds (srv3)
//
// Both appear in the wild for the same video, so the parser handles both and
// converts the millisecond variant locally. Parsing is regex-based rather
// than a strict XML decode: real payloads are frequently truncated or carry
// stray markup, and we want every salvageable segment, not an all-or-nothing
// parse.

var (
	textElementRegex = regexp.MustCompile(`<text\s+start="([\d.]+)"\s+dur="([\d.]+)"[^>]*>([\s\S]*?)</text>`)
	pElementRegex    = regexp.MustCompile(`<p\s+t="(\d+)"(?:\s+d="(\d+)")?[^>]*>([\s\S]*?)</p>`)
	innerTagRegex    = regexp.MustCompile(`<[^>]+>`)
)

// ParseTimedText converts a timed-text XML payload into segments.
// Tolerant: malformed elements are skipped, empty-after-decode text is
// dropped, and the caller decides whether zero segments means failure.
// All emitted offsets are in seconds.
func ParseTimedText(payload string) []Segment {
	var segments []Segment

	for _, match := range textElementRegex.FindAllStringSubmatch(payload, -1) {
		start, err1 := strconv.ParseFloat(match[1], 64)
		dur, err2 := strconv.ParseFloat(match[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		text := cleanCaptionText(match[3])
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Text: text, Start: start, Duration: dur})
	}
	if len(segments) > 0 {
		return segments
	}

	// srv3 variant: offsets are integer milliseconds
	for _, match := range pElementRegex.FindAllStringSubmatch(payload, -1) {
		startMs, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		var durMs float64
		if match[2] != "" {
			durMs, _ = strconv.ParseFloat(match[2], 64)
		}
		text := cleanCaptionText(match[3])
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    startMs / 1000,
			Duration: durMs / 1000,
		})
	}

	return segments
}

// cleanCaptionText strips nested markup (word-level <s> tags in srv3),
// decodes HTML entities like &amp; and &#39;, and trims whitespace.
func cleanCaptionText(raw string) string {
	text := innerTagRegex.ReplaceAllString(raw, "")
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}
