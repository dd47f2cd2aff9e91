// resolver_test.go — Unit tests for YouTube URL/ID resolution.
//
// Go Pattern: Test files live alongside the code they test and end in _test.go.
// Go's testing package is built-in — no need for third-party frameworks like
// Jest or RSpec. Run tests with: go test ./...
package transcript

import (
	"errors"
	"testing"
)

// TestResolveVideoID tests all supported YouTube URL formats.
//
// Go Pattern: Table-driven tests are the standard Go pattern for testing
// multiple inputs. Define a slice of test cases, then loop through them.
func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantError bool
	}{
		// Standard YouTube URLs
		{
			name:  "standard youtube.com URL",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "youtube.com without www",
			input: "https://youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "youtube.com with extra params",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf&index=2",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "v param not first",
			input: "https://www.youtube.com/watch?app=desktop&v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},

		// Short URLs
		{
			name:  "youtu.be short URL",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "youtu.be with query",
			input: "https://youtu.be/dQw4w9WgXcQ?t=42",
			want:  "dQw4w9WgXcQ",
		},

		// Embed and alternate path forms
		{
			name:  "embed URL",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "legacy /v/ URL",
			input: "https://www.youtube.com/v/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "shorts URL",
			input: "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "live URL",
			input: "https://www.youtube.com/live/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},

		// Plain video ID
		{
			name:  "plain video ID",
			input: "dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "video ID with dashes and underscores",
			input: "a-B_c1D2e3F",
			want:  "a-B_c1D2e3F",
		},

		// Whitespace handling
		{
			name:  "URL with leading/trailing whitespace",
			input: "  https://www.youtube.com/watch?v=dQw4w9WgXcQ  ",
			want:  "dQw4w9WgXcQ",
		},

		// Error cases
		{
			name:      "empty string",
			input:     "",
			wantError: true,
		},
		{
			name:      "random URL",
			input:     "https://example.com/not-a-video",
			wantError: true,
		},
		{
			name:      "too short for video ID",
			input:     "short",
			wantError: true,
		},
		{
			name:      "twelve characters is not an ID",
			input:     "abcdefghijkl",
			wantError: true,
		},
		{
			name:      "ID with illegal characters",
			input:     "abc!defghik",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVideoID(tt.input)

			if tt.wantError {
				if err == nil {
					t.Errorf("ResolveVideoID(%q) expected error, got %q", tt.input, got)
					return
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ResolveVideoID(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Errorf("ResolveVideoID(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ResolveVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestResolveVideoID_RoundTrip verifies every URL form embedding the same ID
// resolves to that identical ID.
func TestResolveVideoID_RoundTrip(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	forms := []string{
		id,
		"https://www.youtube.com/watch?v=" + id,
		"https://youtu.be/" + id,
		"https://www.youtube.com/embed/" + id,
		"https://www.youtube.com/shorts/" + id,
	}

	for _, form := range forms {
		got, err := ResolveVideoID(form)
		if err != nil {
			t.Errorf("ResolveVideoID(%q) unexpected error: %v", form, err)
			continue
		}
		if got != id {
			t.Errorf("ResolveVideoID(%q) = %q, want %q", form, got, id)
		}
	}
}
