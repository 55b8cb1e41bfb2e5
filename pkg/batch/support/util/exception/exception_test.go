package exception_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
)

func TestNewBatchError(t *testing.T) {
	originalErr := errors.New("permission denied")
	be := exception.NewBatchError("sink.csv", exception.KindWrite, "failed to open output", originalErr)

	assert.Equal(t, "sink.csv", be.Module)
	assert.Equal(t, exception.KindWrite, be.Kind)
	assert.Equal(t, originalErr, be.Unwrap())
	assert.Equal(t, "[sink.csv] WriteError: failed to open output: permission denied", be.Error())
	assert.NotEmpty(t, be.StackTrace)
}

func TestNewBatchErrorf_WrapsTrailingError(t *testing.T) {
	be := exception.NewBatchErrorf("transformer", exception.KindCast, "row %d: column %q", 3, "dollars_per_mw", strconv.ErrSyntax)

	assert.Equal(t, `row 3: column "dollars_per_mw"`, be.Message)
	assert.ErrorIs(t, be, strconv.ErrSyntax)
}

func TestSentinelMatching(t *testing.T) {
	be := exception.NewBatchError("rate", exception.KindLoad, "missing column", nil)
	wrapped := fmt.Errorf("run aborted: %w", be)

	assert.ErrorIs(t, wrapped, exception.ErrLoad)
	assert.NotErrorIs(t, wrapped, exception.ErrCast)
	assert.Equal(t, exception.KindLoad, exception.KindOf(wrapped))
	assert.Equal(t, "missing column", exception.ExtractErrorMessage(wrapped))
}

func TestRecoverability(t *testing.T) {
	assert.True(t, exception.IsRecoverable(exception.NewBatchError("validator", exception.KindSkippedSource, "x", nil)))
	assert.True(t, exception.IsRecoverable(exception.NewBatchError("transformer", exception.KindCast, "x", nil)))
	assert.True(t, exception.IsFatal(exception.NewBatchError("sink.sql", exception.KindSink, "x", nil)))
	assert.True(t, exception.IsFatal(errors.New("plain")))
	assert.False(t, exception.IsFatal(nil))
}
