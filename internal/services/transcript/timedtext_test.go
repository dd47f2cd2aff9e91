package transcript

import "testing"

// TestParseTimedText covers both caption XML shapes YouTube serves.
func TestParseTimedText(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want []Segment
	}{
		{
			name: "basic text elements in seconds",
			xml: `<?xml version="1.0" encoding="utf-8"?><transcript>
<text start="0" dur="1.2">Hello</text>
<text start="1.2" dur="0.8">world</text>
</transcript>`,
			want: []Segment{
				{Text: "Hello", Start: 0, Duration: 1.2},
				{Text: "world", Start: 1.2, Duration: 0.8},
			},
		},
		{
			name: "entity decoding",
			xml:  `<text start="1.5" dur="2.0">Tom &amp; Jerry</text>`,
			want: []Segment{
				{Text: "Tom & Jerry", Start: 1.5, Duration: 2.0},
			},
		},
		{
			name: "numeric and named entities",
			xml:  `<text start="0" dur="1">it&#39;s &lt;fine&gt; &quot;really&quot;</text>`,
			want: []Segment{
				{Text: `it's <fine> "really"`, Start: 0, Duration: 1},
			},
		},
		{
			name: "empty text contributes no segment",
			xml:  `<text start="0" dur="1"></text><text start="1" dur="1">kept</text>`,
			want: []Segment{
				{Text: "kept", Start: 1, Duration: 1},
			},
		},
		{
			name: "whitespace-only text dropped after decode",
			xml:  `<text start="0" dur="1">   </text>`,
			want: nil,
		},
		{
			name: "srv3 p elements in milliseconds",
			xml:  `<timedtext format="3"><body><p t="1360" d="1680">first line</p><p t="3040" d="2000">second line</p></body></timedtext>`,
			want: []Segment{
				{Text: "first line", Start: 1.36, Duration: 1.68},
				{Text: "second line", Start: 3.04, Duration: 2.0},
			},
		},
		{
			name: "srv3 with nested word tags",
			xml:  `<p t="1000" d="500"><s>Hello</s> <s>there</s></p>`,
			want: []Segment{
				{Text: "Hello there", Start: 1.0, Duration: 0.5},
			},
		},
		{
			name: "srv3 p without duration",
			xml:  `<p t="2500">no duration</p>`,
			want: []Segment{
				{Text: "no duration", Start: 2.5, Duration: 0},
			},
		},
		{
			name: "malformed element skipped, rest kept",
			xml:  `<text start="oops" dur="1">bad</text><text start="2" dur="1">good</text>`,
			want: []Segment{
				{Text: "good", Start: 2, Duration: 1},
			},
		},
		{
			name: "empty payload",
			xml:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimedText(tt.xml)
			assertSegmentsEqual(t, got, tt.want)
		})
	}
}

// assertSegmentsEqual compares segment slices field by field so failures
// name the differing index.
func assertSegmentsEqual(t *testing.T, got, want []Segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
