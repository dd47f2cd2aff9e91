package topics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/podpicker/podpicker-api/internal/services/transcript"
)

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCount int
		wantError bool
	}{
		{
			name:      "clean JSON",
			content:   `{"topics":[{"title":"Intro","summary":"Opening remarks","start":0,"end":60}]}`,
			wantCount: 1,
		},
		{
			name: "JSON wrapped in markdown fences",
			content: "Here are the topics:\n```json\n" +
				`{"topics":[{"title":"A","summary":"a","start":0,"end":30},{"title":"B","summary":"b","start":30,"end":90}]}` +
				"\n```",
			wantCount: 2,
		},
		{
			name:      "no JSON at all",
			content:   "I could not segment this transcript.",
			wantError: true,
		},
		{
			name:      "JSON without topics key",
			content:   `{"summary":"not what we asked for"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics, err := parseTopics(tt.content)
			if tt.wantError {
				if err == nil {
					t.Errorf("parseTopics() expected error, got %d topics", len(topics))
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTopics() unexpected error: %v", err)
			}
			if len(topics) != tt.wantCount {
				t.Errorf("got %d topics, want %d", len(topics), tt.wantCount)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{3599, "59:59"},
		{3661, "1:01:01"},
	}

	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildPrompt_TimestampMarkers(t *testing.T) {
	tr := &transcript.Result{
		VideoID: "abcdefghijk",
		Title:   "Marker Test",
		Segments: []transcript.Segment{
			{Text: "first", Start: 0, Duration: 5},
			{Text: "second", Start: 10, Duration: 5},
			{Text: "third", Start: 45, Duration: 5},
		},
	}

	prompt := buildPrompt(tr)
	if !strings.Contains(prompt, "[0:00] first") {
		t.Errorf("prompt missing opening marker: %q", prompt)
	}
	// The 10s segment is within the 30s window of the previous marker.
	if strings.Contains(prompt, "[0:10]") {
		t.Errorf("prompt has unwanted marker for 10s segment: %q", prompt)
	}
	if !strings.Contains(prompt, "[0:45] third") {
		t.Errorf("prompt missing 45s marker: %q", prompt)
	}
}

func TestSegment(t *testing.T) {
	tr := &transcript.Result{
		VideoID:  "abcdefghijk",
		Title:    "Test Video",
		Segments: []transcript.Segment{{Text: "hello world", Start: 0, Duration: 2}},
		FullText: "hello world",
	}

	t.Run("happy path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"topics\":[{\"title\":\"Greeting\",\"summary\":\"Says hello\",\"start\":0,\"end\":2}]}"}}]}`)
		}))
		defer srv.Close()

		svc := New("test-key", "test/model")
		svc.baseURL = srv.URL

		result, err := svc.Segment(context.Background(), tr, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Topics) != 1 || result.Topics[0].Title != "Greeting" {
			t.Errorf("topics = %+v, want one Greeting topic", result.Topics)
		}
		if result.Model != "test/model" {
			t.Errorf("Model = %q, want test/model", result.Model)
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		svc := New("", "test/model")
		if _, err := svc.Segment(context.Background(), tr, ""); err == nil {
			t.Fatal("expected error without API key")
		}
	})

	t.Run("API error surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":{"message":"model overloaded","code":502}}`)
		}))
		defer srv.Close()

		svc := New("test-key", "test/model")
		svc.baseURL = srv.URL

		if _, err := svc.Segment(context.Background(), tr, ""); err == nil || !strings.Contains(err.Error(), "model overloaded") {
			t.Fatalf("error = %v, want OpenRouter error message", err)
		}
	})
}
