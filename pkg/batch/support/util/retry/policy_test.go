package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/retry"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo_RetriesTransientErrors(t *testing.T) {
	calls := 0
	p := retry.NewExponentialPolicy(3, time.Millisecond, isTransient)
	err := retry.Do(context.Background(), p, "fetch", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("404")
	err := retry.Do(context.Background(), retry.NewExponentialPolicy(5, time.Millisecond, isTransient), "fetch",
		func(ctx context.Context) error {
			calls++
			return permanent
		})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.NewExponentialPolicy(2, time.Millisecond, isTransient), "fetch",
		func(ctx context.Context) error {
			calls++
			return errTransient
		})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := retry.Do(ctx, retry.NewExponentialPolicy(3, time.Hour, isTransient), "fetch", func(ctx context.Context) error {
		cancel()
		return errTransient
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	p := retry.NewExponentialPolicy(10, time.Second, isTransient)
	assert.Equal(t, time.Second, p.GetBackoffInterval(2))
	assert.Equal(t, 2*time.Second, p.GetBackoffInterval(3))
	assert.Equal(t, 4*time.Second, p.GetBackoffInterval(4))
	assert.Equal(t, 30*time.Second, p.GetBackoffInterval(9))
}

func TestNoRetry(t *testing.T) {
	p := retry.NoRetry()
	assert.Equal(t, 1, p.GetMaxAttempts())
	assert.False(t, p.ShouldRetry(errTransient))
}
