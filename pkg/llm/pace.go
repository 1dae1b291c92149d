package llm

import (
	"context"
	"sync"
	"time"
)

// requestDelay spaces consecutive completions so a burst of scoring calls
// doesn't trip provider rate limits.
const requestDelay = 500 * time.Millisecond

// pacer enforces a minimum gap between outbound requests. Concurrent
// callers queue behind each other.
type pacer struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	gap := p.delay - time.Since(p.last)
	if gap < 0 {
		gap = 0
	}
	p.last = time.Now().Add(gap)
	p.mu.Unlock()

	if gap == 0 {
		return nil
	}
	timer := time.NewTimer(gap)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
