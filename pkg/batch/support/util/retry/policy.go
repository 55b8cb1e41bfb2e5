// Package retry decides whether and when a failed operation is attempted again.
package retry

import (
	"context"
	"time"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// RetryPolicy defines retry logic.
type RetryPolicy interface {
	// ShouldRetry determines if err is retryable.
	ShouldRetry(err error) bool
	// GetBackoffInterval returns the wait before the given attempt (starting from 2).
	GetBackoffInterval(attempt int) time.Duration
	// GetMaxAttempts returns the total number of attempts, including the first.
	GetMaxAttempts() int
}

// Classifier reports whether an error is transient.
type Classifier func(err error) bool

// maxBackoff caps the exponential backoff.
const maxBackoff = 30 * time.Second

type exponentialPolicy struct {
	maxAttempts     int
	initialInterval time.Duration
	retryable       Classifier
}

var _ RetryPolicy = (*exponentialPolicy)(nil)

// NewExponentialPolicy retries errors accepted by retryable, doubling initialInterval after
// every attempt. maxAttempts below 1 is treated as 1.
func NewExponentialPolicy(maxAttempts int, initialInterval time.Duration, retryable Classifier) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &exponentialPolicy{maxAttempts: maxAttempts, initialInterval: initialInterval, retryable: retryable}
}

// NoRetry runs the operation once.
func NoRetry() RetryPolicy {
	return NewExponentialPolicy(1, 0, nil)
}

func (p *exponentialPolicy) GetMaxAttempts() int { return p.maxAttempts }

func (p *exponentialPolicy) ShouldRetry(err error) bool {
	return err != nil && p.retryable != nil && p.retryable(err)
}

func (p *exponentialPolicy) GetBackoffInterval(attempt int) time.Duration {
	d := p.initialInterval
	for i := 2; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Do runs op until it succeeds, returns a non-retryable error, or the attempts are used up.
// The last error is returned. Cancellation of ctx stops the wait between attempts.
func Do(ctx context.Context, p RetryPolicy, name string, op func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= p.GetMaxAttempts(); attempt++ {
		if attempt > 1 {
			wait := p.GetBackoffInterval(attempt)
			logger.Warnf("%s: attempt %d/%d after %v: %v", name, attempt, p.GetMaxAttempts(), wait, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err = op(ctx); err == nil || !p.ShouldRetry(err) {
			return err
		}
	}
	return err
}
