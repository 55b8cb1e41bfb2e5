package domain

// RawTable is a parsed source before validation: a header and string cells.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewRawTable builds a table. When a header name repeats, the first occurrence wins.
func NewRawTable(source string, header []string, rows [][]string) *RawTable {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return &RawTable{Source: source, Header: header, Rows: rows, index: index}
}

// Has reports whether column is in the header.
func (t *RawTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Index returns the position of column, or -1.
func (t *RawTable) Index(column string) int {
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Cell returns the value of column in row, or "" for short rows and unknown columns.
func (t *RawTable) Cell(row int, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Len returns the number of data rows.
func (t *RawTable) Len() int { return len(t.Rows) }
