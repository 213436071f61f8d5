package app

import (
	"context"
	"time"
)

// RetryPolicy is a bounded retry with linear backoff: the n-th retry waits
// n*BaseDelay. Only use it for side-effect free operations.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Retryable decides whether err deserves another attempt. Nil retries everything.
	Retryable func(err error) bool
}

func (p RetryPolicy) Delay(retry int) time.Duration {
	return time.Duration(retry) * p.BaseDelay
}

// Do runs fn until it succeeds, the budget is spent, or ctx is done. attempt
// starts at 1. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt > p.MaxRetries || (p.Retryable != nil && !p.Retryable(err)) {
			return err
		}
		t := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}
