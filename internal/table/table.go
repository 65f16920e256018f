// Package table provides a small columnar table keyed by column name,
// used as the exchange type between ingestion, classification, and export.
package table

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Table holds named columns of string cells. Column order is significant
// and preserved through every operation. Cells are stored as strings;
// numeric access goes through Floats. A Table is not safe for concurrent
// mutation, but independent instances are independent.
type Table struct {
	cols []string
	data map[string][]string
	n    int
}

// New returns an empty table with the given number of rows and no columns.
func New(rows int) *Table {
	return &Table{data: make(map[string][]string), n: rows}
}

// FromRows builds a table from a header row and data rows. Short rows are
// padded with empty cells; long rows are an error. Duplicate header names
// are an error.
func FromRows(header []string, rows [][]string) (*Table, error) {
	t := New(len(rows))
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return nil, eris.Errorf("table: duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	for j, name := range header {
		col := make([]string, len(rows))
		for i, row := range rows {
			if len(row) > len(header) {
				return nil, eris.Errorf("table: row %d has %d cells, header has %d", i, len(row), len(header))
			}
			if j < len(row) {
				col[i] = row[j]
			}
		}
		t.cols = append(t.cols, name)
		t.data[name] = col
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.n }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	col, ok := t.data[name]
	if !ok {
		return nil, eris.Errorf("table: column %q not found", name)
	}
	out := make([]string, len(col))
	copy(out, col)
	return out, nil
}

// Cell returns the cell at the named column and row index.
func (t *Table) Cell(name string, row int) (string, error) {
	col, ok := t.data[name]
	if !ok {
		return "", eris.Errorf("table: column %q not found", name)
	}
	if row < 0 || row >= len(col) {
		return "", eris.Errorf("table: row %d out of range (%d rows)", row, len(col))
	}
	return col[row], nil
}

// Floats parses the named column as float64. Empty cells become NaN so
// threshold comparisons treat them as missing rather than zero; any other
// unparseable cell is an error.
func (t *Table) Floats(name string) ([]float64, error) {
	col, ok := t.data[name]
	if !ok {
		return nil, eris.Errorf("table: column %q not found", name)
	}
	out := make([]float64, len(col))
	for i, cell := range col {
		s := strings.TrimSpace(cell)
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "table: column %q row %d: parse %q", name, i, cell)
		}
		out[i] = v
	}
	return out, nil
}

// SetColumn sets or adds a column. A new column is appended to the column
// order. The value count must match the table's row count, except on a
// table with no columns yet, where it fixes the row count.
func (t *Table) SetColumn(name string, values []string) error {
	if len(t.cols) > 0 && len(values) != t.n {
		return eris.Errorf("table: column %q has %d values, table has %d rows", name, len(values), t.n)
	}
	if len(t.cols) == 0 {
		t.n = len(values)
	}
	if _, exists := t.data[name]; !exists {
		t.cols = append(t.cols, name)
	}
	col := make([]string, len(values))
	copy(col, values)
	t.data[name] = col
	return nil
}

// SetFloats sets or adds a column from float64 values. NaN becomes an
// empty cell.
func (t *Table) SetFloats(name string, values []float64) error {
	cells := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return t.SetColumn(name, cells)
}

// Rename renames a column in place, keeping its position.
func (t *Table) Rename(old, new string) error {
	col, ok := t.data[old]
	if !ok {
		return eris.Errorf("table: column %q not found", old)
	}
	if old == new {
		return nil
	}
	if _, exists := t.data[new]; exists {
		return eris.Errorf("table: column %q already exists", new)
	}
	for i, name := range t.cols {
		if name == old {
			t.cols[i] = new
			break
		}
	}
	delete(t.data, old)
	t.data[new] = col
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.n)
	for _, name := range t.cols {
		col := make([]string, len(t.data[name]))
		copy(col, t.data[name])
		out.cols = append(out.cols, name)
		out.data[name] = col
	}
	return out
}

// Reindex returns a new table whose columns are exactly order, in that
// sequence. Columns named in order but absent from the table come back as
// empty cells; columns present in the table but not named in order are
// dropped. Duplicate names in order keep the first occurrence only.
func (t *Table) Reindex(order []string) *Table {
	out := New(t.n)
	for _, name := range order {
		if out.Has(name) {
			continue
		}
		if col, ok := t.data[name]; ok {
			c := make([]string, len(col))
			copy(c, col)
			out.cols = append(out.cols, name)
			out.data[name] = c
			continue
		}
		out.cols = append(out.cols, name)
		out.data[name] = make([]string, t.n)
	}
	return out
}

// Row returns the cells of one row in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, name := range t.cols {
		out[j] = t.data[name][i]
	}
	return out
}

// MatchColumns returns, in table column order, the names of columns that
// contain any of the given substrings.
func (t *Table) MatchColumns(patterns ...string) []string {
	var out []string
	for _, name := range t.cols {
		for _, p := range patterns {
			if strings.Contains(name, p) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// SortedColumns returns the column names sorted lexically. Used by tests
// and diagnostics; the table itself keeps insertion order.
func (t *Table) SortedColumns() []string {
	out := t.Columns()
	sort.Strings(out)
	return out
}
