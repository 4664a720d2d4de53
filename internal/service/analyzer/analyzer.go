// Package analyzer defines the repository-analysis capability. The only
// implementation ships canned results; a real static-analysis engine can
// be swapped in behind the same interface.
package analyzer

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/omniinfra/platform/internal/domain"
)

// Analyzer produces a structured analysis report for a repository.
type Analyzer interface {
	Analyze(ctx context.Context, repo domain.GithubRepo) (json.RawMessage, error)
}

// Static returns the same canned report for every repository after a
// simulated processing delay.
type Static struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewStatic constructs a Static analyzer. Delay bounds of zero disable
// the simulated latency.
func NewStatic(minDelay, maxDelay time.Duration) Static {
	return Static{minDelay: minDelay, maxDelay: maxDelay}
}

// Analyze waits out the simulated latency and returns the canned report.
func (s Static) Analyze(ctx context.Context, repo domain.GithubRepo) (json.RawMessage, error) {
	if err := sleep(ctx, s.minDelay, s.maxDelay); err != nil {
		return nil, err
	}
	return json.Marshal(cannedReport())
}

// sleep blocks for a random duration within [min, max], honoring context
// cancellation.
func sleep(ctx context.Context, min, max time.Duration) error {
	if max <= 0 {
		return nil
	}
	delay := min
	if max > min {
		delay += time.Duration(rand.Int63n(int64(max - min)))
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
