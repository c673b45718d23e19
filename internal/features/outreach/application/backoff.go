package application

import (
	"context"
	"fmt"
	"time"

	"cold-email-generator/internal/features/outreach/domain"

	"github.com/rs/zerolog/log"
)

// BackoffPolicy retries an operation with exponential backoff while its errors are retryable.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable decides whether a failed attempt may be retried. Defaults to IsRetryable.
	Retryable func(error) bool
	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoffPolicy allows 6 attempts, waiting 2s, 4s, 8s, 16s and 32s between them.
// No wait follows the final attempt; its failure is returned immediately.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 6,
		BaseDelay:   2 * time.Second,
	}
}

// IsRetryable reports whether err signals throttling or a transient server failure.
func IsRetryable(err error) bool {
	return domain.IsKind(err, domain.KindRateLimited) || domain.IsKind(err, domain.KindRetryableService)
}

// Delay is the wait after the given number of consecutive failures (1-indexed).
func (p BackoffPolicy) Delay(failures int) time.Duration {
	if failures < 1 {
		return 0
	}
	return p.BaseDelay << (failures - 1)
}

// Do runs op until it succeeds, fails with a non-retryable error, or MaxAttempts
// attempts have failed. The last case returns a KindRetriesExhausted error wrapping
// the final failure.
func (p BackoffPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= maxAttempts {
			return domain.NewError(domain.KindRetriesExhausted,
				fmt.Sprintf("exceeded %d attempts", maxAttempts), err)
		}

		delay := p.Delay(attempt)
		log.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Dur("wait", delay).
			Msg("Retryable generation error, backing off")

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("backoff interrupted: %w", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
