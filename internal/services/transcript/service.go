package transcript

import (
	"context"
	"errors"
	"log"

	"github.com/podpicker/podpicker-api/internal/config"
)

// Extractor is the capability the web layer depends on.
// Go Pattern: Define interfaces where they're USED, not where they're
// implemented — handlers accept this interface and tests pass in fakes.
type Extractor interface {
	GetTranscript(ctx context.Context, urlOrID string) (*Result, error)
	CheckAvailability(ctx context.Context, urlOrID string) (bool, string, error)
}

// Service is the public entry point to the extraction pipeline. It holds no
// per-request state: one Service is safe for concurrent use, and each call
// is independent.
type Service struct {
	chain  *Chain
	titles *titleResolver
}

// NewService wires the standard strategy chain. The proxy and API key are
// plain values captured at construction; nothing here touches process
// environment at call time.
func NewService(proxy config.ProxyConfig, rapidAPIKey string) *Service {
	fetch := newFetcher(proxy)
	return &Service{
		chain: NewChain(
			NewDirectStrategy(fetch),
			NewWatchPageStrategy(fetch),
			NewThirdPartyStrategy(fetch, rapidAPIKey),
		),
		titles: newTitleResolver(fetch),
	}
}

// newServiceWith lets tests assemble a service from fakes.
func newServiceWith(chain *Chain, titles *titleResolver) *Service {
	return &Service{chain: chain, titles: titles}
}

// GetTranscript resolves the input to a video ID, runs the strategy chain,
// and assembles the final transcript.
//
// The title fetch runs concurrently with the chain — the two are independent
// and share no mutable state, so the only coordination is receiving the
// title from its channel at the end. Errors are either ErrInvalidInput
// (checked before any network I/O) or *NoTranscriptError.
func (s *Service) GetTranscript(ctx context.Context, urlOrID string) (*Result, error) {
	videoID, err := ResolveVideoID(urlOrID)
	if err != nil {
		return nil, err
	}

	log.Printf("🎬 Extracting transcript for video: %s", videoID)

	titleCh := make(chan string, 1)
	go func() {
		titleCh <- s.titles.Resolve(ctx, videoID)
	}()

	segments, strategyID, err := s.chain.Extract(ctx, videoID)
	if err != nil {
		// Drain the title goroutine before returning so it never leaks.
		<-titleCh
		return nil, err
	}

	return &Result{
		VideoID:  videoID,
		Title:    <-titleCh,
		Segments: segments,
		FullText: joinSegmentText(segments),
		Strategy: strategyID,
	}, nil
}

// CheckAvailability reports whether a transcript can be extracted without
// treating "no" as an error. The reason is the first failure's message when
// all strategies failed.
func (s *Service) CheckAvailability(ctx context.Context, urlOrID string) (bool, string, error) {
	videoID, err := ResolveVideoID(urlOrID)
	if err != nil {
		return false, "", err
	}

	_, _, err = s.chain.Extract(ctx, videoID)
	if err != nil {
		var noTranscript *NoTranscriptError
		if errors.As(err, &noTranscript) {
			reason := "no transcript available"
			if len(noTranscript.Failures) > 0 {
				reason = noTranscript.Failures[0].Message
			}
			return false, reason, nil
		}
		return false, "", err
	}
	return true, "", nil
}
