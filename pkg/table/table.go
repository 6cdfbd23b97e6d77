// Package table holds the columnar span export representation and the
// normalization that makes exported cell values JSON-safe.
package table

// Table is a columnar result set as returned by the span export
// endpoint: an ordered list of column names and row-major cell data.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnIndex(name)
	return ok
}

// Column returns all cell values of the named column in row order.
func (t *Table) Column(name string) ([]any, bool) {
	idx, ok := t.columnIndex(name)
	if !ok {
		return nil, false
	}
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, nil)
		}
	}
	return values, true
}

// FirstColumn probes candidate column names in order and returns the
// first one present, mirroring how analysis picks among latency,
// message and token column variants.
func (t *Table) FirstColumn(candidates ...string) (string, bool) {
	for _, name := range candidates {
		if t.HasColumn(name) {
			return name, true
		}
	}
	return "", false
}

func (t *Table) columnIndex(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// Records truncates the table to the first limit rows and renders each
// row as a flat column-to-value mapping with every cell normalized.
func Records(t *Table, limit int) []map[string]any {
	if t.IsEmpty() {
		return []map[string]any{}
	}

	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	records := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		record := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				record[col] = Normalize(row[i])
			} else {
				record[col] = nil
			}
		}
		records = append(records, record)
	}
	return records
}
