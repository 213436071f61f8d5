package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/domain"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, []time.Duration{p.Delay(1), p.Delay(2), p.Delay(3)})
}

func TestRetryPolicy_Do(t *testing.T) {
	unavailable := func(err error) bool { return errors.Is(err, domain.ErrEngineUnavailable) }

	t.Run("should stop at the first success", func(t *testing.T) {
		req := require.New(t)
		p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Retryable: unavailable}
		var attempts []int

		err := p.Do(context.Background(), func(attempt int) error {
			attempts = append(attempts, attempt)
			if attempt < 3 {
				return domain.ErrEngineUnavailable
			}
			return nil
		})

		req.NoError(err)
		req.Equal([]int{1, 2, 3}, attempts)
	})

	t.Run("should give up after the retry budget", func(t *testing.T) {
		req := require.New(t)
		p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Retryable: unavailable}
		calls := 0

		err := p.Do(context.Background(), func(int) error {
			calls++
			return domain.ErrEngineUnavailable
		})

		req.ErrorIs(err, domain.ErrEngineUnavailable)
		req.Equal(4, calls)
	})

	t.Run("should not retry other errors", func(t *testing.T) {
		req := require.New(t)
		p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Retryable: unavailable}
		calls := 0

		err := p.Do(context.Background(), func(int) error {
			calls++
			return domain.ErrNegotiation
		})

		req.ErrorIs(err, domain.ErrNegotiation)
		req.Equal(1, calls)
	})

	t.Run("should stop waiting when the context is done", func(t *testing.T) {
		req := require.New(t)
		p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		err := p.Do(ctx, func(int) error {
			calls++
			cancel()
			return domain.ErrEngineUnavailable
		})

		req.ErrorIs(err, domain.ErrEngineUnavailable)
		req.Equal(1, calls)
	})
}
