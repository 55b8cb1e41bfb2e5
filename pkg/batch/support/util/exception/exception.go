// Package exception provides the error taxonomy used by the windcapex pipeline.
// Every error raised by a pipeline stage is a *BatchError carrying a Kind, which decides
// whether the run continues with the next source or stops.
package exception

import (
	"errors"
	"fmt"
	"runtime"
)

// Kind classifies a BatchError.
type Kind int

const (
	// KindUnknown is used for errors that were not classified by the raising module.
	KindUnknown Kind = iota
	// KindLoad means the exchange-rate source is unreadable or malformed. Fatal, raised before any source runs.
	KindLoad
	// KindSkippedSource means a source lacks required columns. The source contributes no rows.
	KindSkippedSource
	// KindCast means a value could not be coerced (or a date is too short). The source is dropped.
	KindCast
	// KindRead means a source could not be fetched or parsed as CSV. The source is dropped.
	KindRead
	// KindWrite means the file-based destination could not be written. Fatal.
	KindWrite
	// KindSink means the relational destination rejected the batch. Fatal; the batch was rolled back.
	KindSink
	// KindConfig means the configuration or command line is invalid. Fatal.
	KindConfig
)

var kindNames = map[Kind]string{
	KindUnknown:       "UnknownError",
	KindLoad:          "LoadError",
	KindSkippedSource: "SkippedSource",
	KindCast:          "CastError",
	KindRead:          "ReadError",
	KindWrite:         "WriteError",
	KindSink:          "SinkError",
	KindConfig:        "ConfigError",
}

// String returns the taxonomy name of the kind (e.g. "CastError").
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Recoverable reports whether an error of this kind only drops the current source.
func (k Kind) Recoverable() bool {
	return k == KindSkippedSource || k == KindCast || k == KindRead
}

// Sentinels for errors.Is matching against a kind, e.g. errors.Is(err, exception.ErrCast).
var (
	ErrLoad          = &BatchError{Kind: KindLoad}
	ErrSkippedSource = &BatchError{Kind: KindSkippedSource}
	ErrCast          = &BatchError{Kind: KindCast}
	ErrRead          = &BatchError{Kind: KindRead}
	ErrWrite         = &BatchError{Kind: KindWrite}
	ErrSink          = &BatchError{Kind: KindSink}
	ErrConfig        = &BatchError{Kind: KindConfig}
)

// BatchError is the error type raised by pipeline modules.
type BatchError struct {
	// Module indicates where the error occurred (e.g. "rate", "transformer", "sink.csv").
	Module string
	// Kind classifies the failure.
	Kind Kind
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// StackTrace is captured at construction time for debugging.
	StackTrace string
}

// NewBatchError creates a new BatchError instance.
//
// module: The module where the error occurred.
// kind: The taxonomy kind.
// message: The error message.
// originalErr: The original error to wrap (may be nil).
func NewBatchError(module string, kind Kind, message string, originalErr error) *BatchError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BatchError{
		Module:      module,
		Kind:        kind,
		Message:     message,
		OriginalErr: originalErr,
		StackTrace:  string(buf[:n]),
	}
}

// NewBatchErrorf creates a new BatchError with a formatted message.
// If the last argument is an error, it is wrapped instead of being formatted.
//
// Example:
//
//	NewBatchErrorf("transformer", KindCast, "row %d: column %q", 3, "dollars_per_mw", strconv.ErrSyntax)
func NewBatchErrorf(module string, kind Kind, format string, a ...interface{}) *BatchError {
	var originalErr error
	if len(a) > 0 {
		if err, ok := a[len(a)-1].(error); ok {
			originalErr = err
			a = a[:len(a)-1]
		}
	}
	return NewBatchError(module, kind, fmt.Sprintf(format, a...), originalErr)
}

// Error implements the error interface as "[module] Kind: message: cause".
func (e *BatchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Module, e.Kind, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Module, e.Kind, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *BatchError) Unwrap() error {
	return e.OriginalErr
}

// Is matches another *BatchError with the same Kind, which makes the Err* sentinels work with errors.Is.
func (e *BatchError) Is(target error) bool {
	t, ok := target.(*BatchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Module == "" || t.Module == e.Module)
}

// KindOf returns the Kind of the first BatchError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var be *BatchError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// IsRecoverable reports whether err only drops the current source.
func IsRecoverable(err error) bool {
	return KindOf(err).Recoverable()
}

// IsFatal reports whether err must stop the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsRecoverable(err)
}

// ExtractErrorMessage returns the Message of a BatchError, or err.Error() for other errors.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BatchError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
