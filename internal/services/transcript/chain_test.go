package transcript

import (
	"context"
	"errors"
	"testing"
)

// fakeStrategy counts its invocations and returns canned results, letting
// chain tests verify short-circuit behavior.
type fakeStrategy struct {
	id       string
	segments []Segment
	fail     *ExtractionFailure
	calls    int
}

func (f *fakeStrategy) ID() string { return f.id }

func (f *fakeStrategy) Attempt(ctx context.Context, videoID string) ([]Segment, *ExtractionFailure) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.segments, nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeStrategy{id: "a", segments: []Segment{{Text: "hi", Start: 0, Duration: 1}}}
	second := &fakeStrategy{id: "b", segments: []Segment{{Text: "never", Start: 0, Duration: 1}}}
	third := &fakeStrategy{id: "c", segments: []Segment{{Text: "never", Start: 0, Duration: 1}}}

	segments, strategyID, err := NewChain(first, second, third).Extract(context.Background(), "abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategyID != "a" {
		t.Errorf("strategyID = %q, want %q", strategyID, "a")
	}
	if len(segments) != 1 || segments[0].Text != "hi" {
		t.Errorf("segments = %+v, want the first strategy's output", segments)
	}
	if first.calls != 1 {
		t.Errorf("first strategy called %d times, want 1", first.calls)
	}
	if second.calls != 0 || third.calls != 0 {
		t.Errorf("later strategies invoked (%d, %d), want never", second.calls, third.calls)
	}
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &fakeStrategy{id: "a", fail: failure("a", FailureNetworkError, "timeout")}
	second := &fakeStrategy{id: "b", fail: failure("b", FailureRateLimited, "429")}
	third := &fakeStrategy{id: "c", segments: []Segment{{Text: "rescued", Start: 0, Duration: 1}}}

	segments, strategyID, err := NewChain(first, second, third).Extract(context.Background(), "abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategyID != "c" {
		t.Errorf("strategyID = %q, want %q", strategyID, "c")
	}
	if len(segments) != 1 || segments[0].Text != "rescued" {
		t.Errorf("segments = %+v, want third strategy's output", segments)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Errorf("call counts = %d/%d/%d, want 1/1/1", first.calls, second.calls, third.calls)
	}
}

func TestChain_Exhaustion(t *testing.T) {
	first := &fakeStrategy{id: "a", fail: failure("a", FailureNotFound, "no captions")}
	second := &fakeStrategy{id: "b", fail: failure("b", FailureDisabled, "turned off")}
	third := &fakeStrategy{id: "c", fail: failure("c", FailureParseError, "shape drifted")}

	_, _, err := NewChain(first, second, third).Extract(context.Background(), "abcdefghijk")
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}

	var noTranscript *NoTranscriptError
	if !errors.As(err, &noTranscript) {
		t.Fatalf("error = %T, want *NoTranscriptError", err)
	}
	if noTranscript.VideoID != "abcdefghijk" {
		t.Errorf("VideoID = %q, want abcdefghijk", noTranscript.VideoID)
	}
	if len(noTranscript.Failures) != 3 {
		t.Fatalf("got %d failures, want 3", len(noTranscript.Failures))
	}

	wantKinds := map[string]FailureKind{
		"a": FailureNotFound,
		"b": FailureDisabled,
		"c": FailureParseError,
	}
	for _, f := range noTranscript.Failures {
		if wantKinds[f.Strategy] != f.Kind {
			t.Errorf("failure for %s has kind %s, want %s", f.Strategy, f.Kind, wantKinds[f.Strategy])
		}
	}
}

// TestChain_EmptySegmentsIsNotFound verifies that a strategy returning zero
// segments does not win the chain — an empty transcript is never valid.
func TestChain_EmptySegmentsIsNotFound(t *testing.T) {
	empty := &fakeStrategy{id: "empty", segments: []Segment{}}
	rescue := &fakeStrategy{id: "rescue", segments: []Segment{{Text: "real", Start: 0, Duration: 1}}}

	segments, strategyID, err := NewChain(empty, rescue).Extract(context.Background(), "abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategyID != "rescue" {
		t.Errorf("strategyID = %q, want rescue", strategyID)
	}
	if len(segments) != 1 {
		t.Errorf("got %d segments, want 1", len(segments))
	}

	// When the empty strategy is the only one, the recorded failure is not_found.
	_, _, err = NewChain(&fakeStrategy{id: "empty", segments: []Segment{}}).Extract(context.Background(), "abcdefghijk")
	var noTranscript *NoTranscriptError
	if !errors.As(err, &noTranscript) {
		t.Fatalf("error = %T, want *NoTranscriptError", err)
	}
	if len(noTranscript.Failures) != 1 || noTranscript.Failures[0].Kind != FailureNotFound {
		t.Errorf("failures = %+v, want one not_found", noTranscript.Failures)
	}
}

func TestChain_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategy := &fakeStrategy{id: "a", segments: []Segment{{Text: "hi", Start: 0, Duration: 1}}}
	_, _, err := NewChain(strategy).Extract(ctx, "abcdefghijk")
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if strategy.calls != 0 {
		t.Errorf("strategy called %d times after cancellation, want 0", strategy.calls)
	}
}
