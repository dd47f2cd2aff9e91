package transcript

import "testing"

func TestParseSRT(t *testing.T) {
	tests := []struct {
		name string
		srt  string
		want []Segment
	}{
		{
			name: "basic two-block file",
			srt: `1
00:00:01,000 --> 00:00:04,000
Hello, welcome to the video.

2
00:00:04,500 --> 00:00:08,000
Today we talk about Go.`,
			want: []Segment{
				{Text: "Hello, welcome to the video.", Start: 1.0, Duration: 3.0},
				{Text: "Today we talk about Go.", Start: 4.5, Duration: 3.5},
			},
		},
		{
			name: "multi-line block joined by space",
			srt: `1
00:00:10,250 --> 00:00:12,750
first line
second line`,
			want: []Segment{
				{Text: "first line second line", Start: 10.25, Duration: 2.5},
			},
		},
		{
			name: "hour and millisecond arithmetic",
			srt: `1
01:02:03,500 --> 01:02:05,750
long video`,
			want: []Segment{
				{Text: "long video", Start: 3723.5, Duration: 2.25},
			},
		},
		{
			name: "vtt-style dot separators accepted",
			srt: `1
00:00:01.000 --> 00:00:02.500
dotted`,
			want: []Segment{
				{Text: "dotted", Start: 1.0, Duration: 1.5},
			},
		},
		{
			name: "block without sequence number",
			srt: `00:00:01,000 --> 00:00:02,000
no sequence`,
			want: []Segment{
				{Text: "no sequence", Start: 1.0, Duration: 1.0},
			},
		},
		{
			name: "malformed block skipped, rest kept",
			srt: `1
not a timestamp
garbage

2
00:00:05,000 --> 00:00:06,000
survivor`,
			want: []Segment{
				{Text: "survivor", Start: 5.0, Duration: 1.0},
			},
		},
		{
			name: "windows line endings",
			srt:  "1\r\n00:00:01,000 --> 00:00:02,000\r\ncrlf text\r\n",
			want: []Segment{
				{Text: "crlf text", Start: 1.0, Duration: 1.0},
			},
		},
		{
			name: "empty input",
			srt:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSRT(tt.srt)
			assertSegmentsEqual(t, got, tt.want)
		})
	}
}
