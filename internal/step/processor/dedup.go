package processor

import (
	"strconv"
	"strings"

	"github.com/tigerroll/windcapex/internal/domain"
)

// Deduplicator removes rows equal in every column.
type Deduplicator struct{}

// NewDeduplicator creates a Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first occurrence of each distinct row and preserves order.
// Cells compare by kind and rendered value, so the string "1.0" and the float 1.0 differ.
func (d *Deduplicator) Deduplicate(batch domain.Batch) domain.Batch {
	seen := make(map[string]struct{}, len(batch.Rows))
	out := domain.NewBatch(batch.Columns)
	out.Rows = make([]domain.OutputRow, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		k := rowKey(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func rowKey(row domain.OutputRow) string {
	var b strings.Builder
	for _, v := range row {
		k := v.Key()
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}
