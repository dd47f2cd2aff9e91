package transcript

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// titleResolver pulls the video's display title out of the watch page.
// Strictly best-effort: any fetch or parse problem yields a synthesized
// placeholder, never an error — a missing title must not sink an otherwise
// successful extraction.
type titleResolver struct {
	fetch *fetcher

	// watchURLBase is overridable for tests; empty means the real site.
	watchURLBase string
}

func newTitleResolver(fetch *fetcher) *titleResolver {
	return &titleResolver{fetch: fetch}
}

// Resolve returns the video title, or "YouTube Video {id}" on any failure.
func (r *titleResolver) Resolve(ctx context.Context, videoID string) string {
	fallback := fmt.Sprintf("YouTube Video %s", videoID)

	url := WatchURL(videoID)
	if r.watchURLBase != "" {
		url = r.watchURLBase + "/watch?v=" + videoID
	}

	body, _, err := r.fetch.get(ctx, url, browserUserAgent)
	if err != nil {
		return fallback
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fallback
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSuffix(title, " - YouTube")
	title = strings.TrimSpace(title)
	if title == "" {
		return fallback
	}
	return title
}
