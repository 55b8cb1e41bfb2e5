// Package logger provides the leveled logging used throughout windcapex.
// It wraps the standard `log` package and drops messages below the configured level.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// LogLevel is a type representing the logging level.
type LogLevel int32

const (
	// LevelDebug is used for detailed diagnostic output (per-source row counts, SQL chunks).
	LevelDebug LogLevel = iota
	// LevelInfo is used for run progress and summaries.
	LevelInfo
	// LevelWarn is used for recoverable problems such as skipped sources.
	LevelWarn
	// LevelError is used for failed sources and sink errors.
	LevelError
	// LevelFatal is used right before the process terminates.
	LevelFatal
)

// String returns the canonical upper-case name of the level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

var logLevel atomic.Int32

func init() {
	logLevel.Store(int32(LevelInfo))
}

// ParseLevel converts a level name ("DEBUG", "INFO", "WARN", "ERROR", "FATAL", case-insensitive)
// into a LogLevel. The second return value is false for unknown names.
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	}
	return LevelInfo, false
}

// SetLogLevel sets the global log level.
// If an invalid value is specified, INFO is used and a warning is printed.
func SetLogLevel(level string) {
	lvl, ok := ParseLevel(level)
	if !ok {
		log.Printf("[WARN] Unknown log level '%s' specified. Defaulting to INFO level.", level)
	}
	logLevel.Store(int32(lvl))
}

// CurrentLevel returns the active log level.
func CurrentLevel() LogLevel {
	return LogLevel(logLevel.Load())
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func enabled(l LogLevel) bool {
	return CurrentLevel() <= l
}

// Debugf formats and outputs a DEBUG level log message.
func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// Infof formats and outputs an INFO level log message.
func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

// Warnf formats and outputs a WARN level log message.
func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

// Errorf formats and outputs an ERROR level log message.
func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		log.Printf("[ERROR] "+format, v...)
	}
}

// Fatalf formats and outputs a FATAL level log message,
// then terminates the program by calling os.Exit(1).
func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
