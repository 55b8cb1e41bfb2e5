// Package reader provides the item readers used by pipeline steps.
package reader

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

const utf8BOM = "\ufeff"

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 1024

// CSVReader reads a header line followed by data rows. Rows may be ragged and quoted
// fields may span lines. Blank lines are skipped.
type CSVReader struct {
	name   string    // name identifies the source in errors and logs.
	src    io.Reader // src is the raw input.
	csv    *csv.Reader
	header []string
	line   int // line is the 1-based number of the last data row read.
}

// NewCSVReader creates a reader over src.
func NewCSVReader(name string, src io.Reader) *CSVReader {
	return &CSVReader{name: name, src: src}
}

// Open consumes the header. An input without a header is an error.
func (r *CSVReader) Open(ctx context.Context) error {
	br := bufio.NewReader(r.src)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	r.csv = csv.NewReader(br)
	r.csv.FieldsPerRecord = -1
	r.csv.LazyQuotes = true
	r.csv.ReuseRecord = false

	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: no header line", r.name)
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", r.name, err)
	}
	r.header = header
	return ctx.Err()
}

// Header returns the column names read by Open.
func (r *CSVReader) Header() []string {
	return r.header
}

// Read returns the next row, or io.EOF after the last one.
func (r *CSVReader) Read(ctx context.Context) ([]string, error) {
	if r.csv == nil {
		return nil, fmt.Errorf("%s: reader is not open", r.name)
	}
	if r.line%ctxCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: row %d: %w", r.name, r.line+1, err)
	}
	r.line++
	return row, nil
}

// ReadAll opens src and returns the header and every row.
func ReadAll(ctx context.Context, name string, src io.Reader) ([]string, [][]string, error) {
	r := NewCSVReader(name, src)
	if err := r.Open(ctx); err != nil {
		return nil, nil, err
	}
	var rows [][]string
	for {
		row, err := r.Read(ctx)
		if errors.Is(err, io.EOF) {
			return r.Header(), rows, nil
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
}
