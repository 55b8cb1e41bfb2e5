// Package rate loads the year-keyed exchange-rate multipliers joined onto every record.
package rate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tigerroll/windcapex/internal/schema"
	csvreader "github.com/tigerroll/windcapex/pkg/batch/component/step/reader"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

const module = "rate"

// Policy decides which entry wins when a year appears more than once.
type Policy string

const (
	PolicyLast  Policy = "last"
	PolicyFirst Policy = "first"
)

// ParsePolicy accepts "first" or "last" (case-insensitive). Empty means PolicyLast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLast:
		return PolicyLast, nil
	case PolicyFirst:
		return PolicyFirst, nil
	default:
		return "", fmt.Errorf("unknown rate duplicate policy '%s' (expected first or last)", s)
	}
}

// Table maps a year string to its multiplier. A nil entry means the year is present
// with an empty multiplier. Table is read-only after Load.
type Table struct {
	entries map[string]*float64
}

// NewTable builds a table from explicit entries.
func NewTable(entries map[string]*float64) *Table {
	cp := make(map[string]*float64, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &Table{entries: cp}
}

// Lookup returns the multiplier for year. ok is false for unknown years and null entries.
func (t *Table) Lookup(year string) (float64, bool) {
	v, found := t.entries[year]
	if !found || v == nil {
		return 0, false
	}
	return *v, true
}

// Len returns the number of distinct years.
func (t *Table) Len() int {
	return len(t.entries)
}

// Years returns the distinct years in lexical order.
func (t *Table) Years() []string {
	years := make([]string, 0, len(t.entries))
	for y := range t.entries {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Load reads a rate CSV from src. Only year and rate_multiplier are kept; year is an exact
// string key. Any failure is a KindLoad error.
func Load(ctx context.Context, name string, src io.Reader, policy Policy) (*Table, error) {
	header, rows, err := csvreader.ReadAll(ctx, name, src)
	if err != nil {
		return nil, exception.NewBatchErrorf(module, exception.KindLoad, "failed to read rate source %s", name, err)
	}

	yearIdx, rateIdx := -1, -1
	for i, h := range header {
		switch {
		case h == schema.ColYear && yearIdx < 0:
			yearIdx = i
		case h == schema.ColRateMultiplier && rateIdx < 0:
			rateIdx = i
		}
	}
	var missing []string
	if yearIdx < 0 {
		missing = append(missing, schema.ColYear)
	}
	if rateIdx < 0 {
		missing = append(missing, schema.ColRateMultiplier)
	}
	if len(missing) > 0 {
		return nil, exception.NewBatchErrorf(module, exception.KindLoad, "rate source %s is missing columns %v", name, missing)
	}

	entries := make(map[string]*float64, len(rows))
	duplicates := 0
	for i, row := range rows {
		year := cell(row, yearIdx)
		raw := strings.TrimSpace(cell(row, rateIdx))

		var multiplier *float64
		if raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, exception.NewBatchErrorf(module, exception.KindLoad,
					"rate source %s row %d: invalid %s %q", name, i+1, schema.ColRateMultiplier, raw, err)
			}
			multiplier = &v
		}

		if _, seen := entries[year]; seen {
			duplicates++
			logger.Warnf("Rate source %s: duplicate year '%s' at row %d (policy %s).", name, year, i+1, policy)
			if policy == PolicyFirst {
				continue
			}
		}
		entries[year] = multiplier
	}

	logger.Infof("Loaded %d exchange rates from %s (%d duplicate rows).", len(entries), name, duplicates)
	return &Table{entries: entries}, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
