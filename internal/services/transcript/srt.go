package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// srtTimestampRegex matches "HH:MM:SS,mmm --> HH:MM:SS,mmm". Some sources
// emit WebVTT-style dots instead of commas, so both separators are accepted.
var srtTimestampRegex = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT converts SubRip subtitle text into segments.
//
// SRT blocks are blank-line delimited:
//
//	1
//	00:00:01,000 --> 00:00:04,000
//	Hello, welcome to the video.
//
// The sequence number is ignored; multiple text lines in one block are
// joined by a space. Blocks without a parseable timestamp line are skipped
// rather than failing the whole parse.
func ParseSRT(payload string) []Segment {
	var segments []Segment

	payload = strings.ReplaceAll(payload, "\r\n", "\n")
	for _, block := range strings.Split(payload, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		// Find the timestamp line — usually line 2, but the sequence number
		// is optional in practice.
		tsIdx := -1
		var ts []string
		for i, line := range lines {
			if m := srtTimestampRegex.FindStringSubmatch(line); m != nil {
				tsIdx, ts = i, m
				break
			}
		}
		if tsIdx == -1 || tsIdx == len(lines)-1 {
			continue
		}

		start := srtTimeToSeconds(ts[1], ts[2], ts[3], ts[4])
		end := srtTimeToSeconds(ts[5], ts[6], ts[7], ts[8])

		text := strings.TrimSpace(strings.Join(lines[tsIdx+1:], " "))
		if text == "" {
			continue
		}

		segments = append(segments, Segment{
			Text:     text,
			Start:    start,
			Duration: end - start,
		})
	}

	return segments
}

// srtTimeToSeconds converts h/m/s/ms strings to float seconds.
// Inputs come from the regex so they always parse.
func srtTimeToSeconds(h, m, s, ms string) float64 {
	hours, _ := strconv.Atoi(h)
	mins, _ := strconv.Atoi(m)
	secs, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return float64(hours)*3600 + float64(mins)*60 + float64(secs) + float64(millis)/1000
}
