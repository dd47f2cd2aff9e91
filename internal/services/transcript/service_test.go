package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/podpicker/podpicker-api/internal/config"
)

// newTestTitleResolver points the title resolver at an httptest server, or
// at a closed port when handler is nil (to simulate fetch failure).
func newTestTitleResolver(t *testing.T, handler http.Handler) *titleResolver {
	t.Helper()
	resolver := newTitleResolver(newFetcher(config.ProxyConfig{}))
	if handler == nil {
		// A server we immediately close: every fetch fails fast.
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		resolver.watchURLBase = srv.URL
		return resolver
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	resolver.watchURLBase = srv.URL
	return resolver
}

func TestService_GetTranscript_EndToEnd(t *testing.T) {
	strategy := &fakeStrategy{id: "direct_timedtext", segments: []Segment{
		{Text: "Hello", Start: 0, Duration: 1.2},
		{Text: "world", Start: 1.2, Duration: 0.8},
	}}
	titles := newTestTitleResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Test Video - YouTube</title></head></html>`)
	}))

	svc := newServiceWith(NewChain(strategy), titles)
	result, err := svc.GetTranscript(context.Background(), "https://www.youtube.com/watch?v=abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.VideoID != "abcdefghijk" {
		t.Errorf("VideoID = %q, want abcdefghijk", result.VideoID)
	}
	if result.Title != "Test Video" {
		t.Errorf("Title = %q, want \"Test Video\"", result.Title)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if result.FullText != "Hello world" {
		t.Errorf("FullText = %q, want \"Hello world\"", result.FullText)
	}
	if result.Strategy != "direct_timedtext" {
		t.Errorf("Strategy = %q, want direct_timedtext", result.Strategy)
	}
}

// TestService_GetTranscript_FullTextInvariant checks fullText is exactly the
// segment texts joined with single spaces.
func TestService_GetTranscript_FullTextInvariant(t *testing.T) {
	segments := []Segment{
		{Text: "one", Start: 0, Duration: 1},
		{Text: "two words", Start: 1, Duration: 1},
		{Text: "three", Start: 2, Duration: 1},
	}
	svc := newServiceWith(
		NewChain(&fakeStrategy{id: "s", segments: segments}),
		newTestTitleResolver(t, nil),
	)

	result, err := svc.GetTranscript(context.Background(), "abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FullText != "one two words three" {
		t.Errorf("FullText = %q, want %q", result.FullText, "one two words three")
	}
}

func TestService_GetTranscript_InvalidInput(t *testing.T) {
	strategy := &fakeStrategy{id: "s", segments: []Segment{{Text: "hi", Start: 0, Duration: 1}}}
	svc := newServiceWith(NewChain(strategy), newTestTitleResolver(t, nil))

	_, err := svc.GetTranscript(context.Background(), "https://example.com/not-a-video")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	// Invalid input must short-circuit before any strategy runs.
	if strategy.calls != 0 {
		t.Errorf("strategy called %d times for invalid input, want 0", strategy.calls)
	}
}

func TestService_GetTranscript_PropagatesExhaustion(t *testing.T) {
	svc := newServiceWith(
		NewChain(&fakeStrategy{id: "only", fail: failure("only", FailureDisabled, "off")}),
		newTestTitleResolver(t, nil),
	)

	_, err := svc.GetTranscript(context.Background(), "abcdefghijk")
	var noTranscript *NoTranscriptError
	if !errors.As(err, &noTranscript) {
		t.Fatalf("error = %T, want *NoTranscriptError", err)
	}
	if len(noTranscript.Failures) != 1 || noTranscript.Failures[0].Kind != FailureDisabled {
		t.Errorf("failures = %+v, want one disabled", noTranscript.Failures)
	}
}

// TestTitleResolver_Fallback verifies title failures degrade to the
// synthesized placeholder instead of erroring.
func TestTitleResolver_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
		want    string
	}{
		{
			name:    "fetch failure",
			handler: nil,
			want:    "YouTube Video abcdefghijk",
		},
		{
			name: "page without title element",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html><body>no title here</body></html>`)
			}),
			want: "YouTube Video abcdefghijk",
		},
		{
			name: "suffix stripped and trimmed",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html><head><title>  My Talk - YouTube</title></head></html>`)
			}),
			want: "My Talk",
		},
		{
			name: "title without suffix kept as-is",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html><head><title>Plain Title</title></head></html>`)
			}),
			want: "Plain Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestTitleResolver(t, tt.handler)
			got := resolver.Resolve(context.Background(), "abcdefghijk")
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestService_CheckAvailability(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		svc := newServiceWith(
			NewChain(&fakeStrategy{id: "s", segments: []Segment{{Text: "hi", Start: 0, Duration: 1}}}),
			newTestTitleResolver(t, nil),
		)
		has, _, err := svc.CheckAvailability(context.Background(), "abcdefghijk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !has {
			t.Error("CheckAvailability() = false, want true")
		}
	})

	t.Run("unavailable is not an error", func(t *testing.T) {
		svc := newServiceWith(
			NewChain(&fakeStrategy{id: "s", fail: failure("s", FailureDisabled, "transcripts are disabled")}),
			newTestTitleResolver(t, nil),
		)
		has, reason, err := svc.CheckAvailability(context.Background(), "abcdefghijk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if has {
			t.Error("CheckAvailability() = true, want false")
		}
		if reason != "transcripts are disabled" {
			t.Errorf("reason = %q, want the strategy's message", reason)
		}
	})

	t.Run("invalid input still errors", func(t *testing.T) {
		svc := newServiceWith(NewChain(), newTestTitleResolver(t, nil))
		_, _, err := svc.CheckAvailability(context.Background(), "nope")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("error = %v, want ErrInvalidInput", err)
		}
	})
}
