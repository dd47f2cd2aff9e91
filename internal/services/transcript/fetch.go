package transcript

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/podpicker/podpicker-api/internal/config"
)

const (
	// browserUserAgent makes watch-page fetches look like a desktop browser.
	// YouTube serves a different (caption-free) page to obvious bots.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// androidUserAgent matches the innertube ANDROID client we claim to be.
	androidUserAgent = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"

	// fetchTimeout bounds every individual upstream request. A hung fetch
	// becomes a network_error for that strategy instead of stalling the chain.
	fetchTimeout = 30 * time.Second
)

// fetcher wraps an http.Client configured once per service. The proxy comes
// in as an explicit value — never via process environment variables — so
// concurrent extractions with different settings can't race.
type fetcher struct {
	client *http.Client
}

func newFetcher(proxy config.ProxyConfig) *fetcher {
	transport := &http.Transport{}
	if proxy.Enabled() {
		if proxyURL, err := url.Parse(proxy.URL()); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &fetcher{
		client: &http.Client{
			Timeout:   fetchTimeout,
			Transport: transport,
		},
	}
}

// get fetches a URL with the given User-Agent and returns the body.
// Non-2xx statuses are returned as errors tagged with the status code so
// callers can classify 429s separately.
func (f *fetcher) get(ctx context.Context, rawURL, userAgent string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}

// post sends a JSON body and returns the response bytes.
func (f *fetcher) post(ctx context.Context, rawURL string, jsonBody []byte, userAgent string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
