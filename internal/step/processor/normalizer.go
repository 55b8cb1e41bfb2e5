package processor

import (
	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/schema"
)

// ColumnNormalizer projects records onto a fixed column list.
type ColumnNormalizer struct {
	columns []string
}

// NewColumnNormalizer projects onto schema.CanonicalOutputColumns.
func NewColumnNormalizer() *ColumnNormalizer {
	return &ColumnNormalizer{columns: schema.CanonicalOutputColumns}
}

// Columns returns the output column list.
func (n *ColumnNormalizer) Columns() []string {
	return n.columns
}

// Normalize builds a batch whose rows follow the column list exactly. Columns missing from a
// record are Null and columns outside the list are dropped. Values are not changed.
func (n *ColumnNormalizer) Normalize(records []domain.Record) domain.Batch {
	batch := domain.NewBatch(n.columns)
	batch.Rows = make([]domain.OutputRow, 0, len(records))
	for _, rec := range records {
		row := make(domain.OutputRow, len(n.columns))
		for i, c := range n.columns {
			if v, ok := rec[c]; ok {
				row[i] = v
			}
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch
}

// NormalizeTransformed is Normalize over TransformedRecord.Columns.
func (n *ColumnNormalizer) NormalizeTransformed(records []domain.TransformedRecord) domain.Batch {
	recs := make([]domain.Record, len(records))
	for i, r := range records {
		recs[i] = r.Columns()
	}
	return n.Normalize(recs)
}
