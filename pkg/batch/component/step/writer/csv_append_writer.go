package writer

import (
	"bufio"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// CSVAppendWriter appends rows to a CSV file. The header is written only when the file is
// created or empty, so repeated runs on the same day extend one file.
type CSVAppendWriter struct {
	path   string
	header []string

	file          *os.File
	bufWriter     *bufio.Writer
	csvWriter     *csv.Writer
	headerWritten bool
	rowsWritten   int
}

var _ ItemWriter[[]string] = (*CSVAppendWriter)(nil)

// NewCSVAppendWriter creates a writer for path with the given header.
func NewCSVAppendWriter(path string, header []string) *CSVAppendWriter {
	return &CSVAppendWriter{path: path, header: header}
}

func writeError(format string, a ...interface{}) error {
	return exception.NewBatchErrorf("writer", exception.KindWrite, format, a...)
}

// Open creates the parent directory and opens the file for appending.
func (w *CSVAppendWriter) Open(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return writeError("cannot create directory for %s", w.path, err)
	}
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return writeError("cannot open %s", w.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return writeError("cannot stat %s", w.path, err)
	}

	w.file = f
	w.bufWriter = bufio.NewWriter(f)
	w.csvWriter = csv.NewWriter(w.bufWriter)
	w.headerWritten = info.Size() > 0
	w.rowsWritten = 0
	logger.Debugf("CSVAppendWriter: opened %s (existing=%t).", w.path, w.headerWritten)
	return nil
}

// Write appends rows, preceded by the header if the file had no content.
func (w *CSVAppendWriter) Write(ctx context.Context, rows [][]string) error {
	if w.csvWriter == nil {
		return writeError("%s is not open", w.path)
	}
	if !w.headerWritten {
		if err := w.csvWriter.Write(w.header); err != nil {
			return writeError("cannot write header to %s", w.path, err)
		}
		w.headerWritten = true
	}
	for _, row := range rows {
		if err := w.csvWriter.Write(row); err != nil {
			return writeError("cannot write row to %s", w.path, err)
		}
	}
	w.csvWriter.Flush()
	if err := w.csvWriter.Error(); err != nil {
		return writeError("cannot flush %s", w.path, err)
	}
	if err := w.bufWriter.Flush(); err != nil {
		return writeError("cannot flush %s", w.path, err)
	}
	w.rowsWritten += len(rows)
	return nil
}

// Close flushes and closes the file.
func (w *CSVAppendWriter) Close(ctx context.Context) error {
	if w.file == nil {
		return nil
	}
	defer func() { w.file = nil }()

	w.csvWriter.Flush()
	if err := w.csvWriter.Error(); err != nil {
		w.file.Close()
		return writeError("cannot flush %s", w.path, err)
	}
	if err := w.bufWriter.Flush(); err != nil {
		w.file.Close()
		return writeError("cannot flush %s", w.path, err)
	}
	if err := w.file.Close(); err != nil {
		return writeError("cannot close %s", w.path, err)
	}
	logger.Debugf("CSVAppendWriter: closed %s after %d rows.", w.path, w.rowsWritten)
	return nil
}

func (w *CSVAppendWriter) GetTargetResourceName() string {
	return filepath.Base(w.path)
}

func (w *CSVAppendWriter) GetResourcePath() string {
	return w.path
}
