package transcript

import (
	"context"
	"log"
)

// Strategy is one way of getting segments for a video. Implementations must
// classify their own failures and honor ctx cancellation on every fetch.
type Strategy interface {
	ID() string
	Attempt(ctx context.Context, videoID string) ([]Segment, *ExtractionFailure)
}

// Chain tries strategies strictly in order and stops at the first one that
// returns a non-empty segment list. First-success-wins, no retries, no
// scoring — the order is a fixed reliability/cost decision: the direct
// endpoint is cheapest, the watch page is heavier, and the third-party API
// costs money.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain over the given strategies in priority order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Extract walks the chain for one video ID.
//
// A strategy returning zero segments is recorded as a not_found failure and
// the chain moves on — an empty transcript is never a success. Rate-limit
// failures also just move the chain along; backoff and retry are the
// caller's concern, not ours. When every strategy has failed the result is a
// *NoTranscriptError carrying all of them.
func (c *Chain) Extract(ctx context.Context, videoID string) ([]Segment, string, error) {
	failures := make([]ExtractionFailure, 0, len(c.strategies))

	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			failures = append(failures, *failure(strategy.ID(), FailureNetworkError, "request cancelled: %v", err))
			break
		}

		segments, fail := strategy.Attempt(ctx, videoID)
		if fail != nil {
			log.Printf("⚠️  Strategy %s failed for %s: %s (%s)", strategy.ID(), videoID, fail.Message, fail.Kind)
			failures = append(failures, *fail)
			continue
		}
		if len(segments) == 0 {
			log.Printf("⚠️  Strategy %s returned no segments for %s", strategy.ID(), videoID)
			failures = append(failures, *failure(strategy.ID(), FailureNotFound, "strategy returned zero segments"))
			continue
		}

		log.Printf("✅ Strategy %s extracted %d segments for %s", strategy.ID(), len(segments), videoID)
		return segments, strategy.ID(), nil
	}

	return nil, "", &NoTranscriptError{VideoID: videoID, Failures: failures}
}
