package table

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/caasets/internal/model"
)

// Table is an in-memory result set. Rows always have len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]model.Value
}

// New returns an empty table with the given columns.
func New(columns []string) *Table {
	return &Table{Columns: slices.Clone(columns), Rows: [][]model.Value{}}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row []model.Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Value returns the cell at row for the named column.
func (t *Table) Value(row int, column string) (model.Value, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[row][idx], true
}

// Column returns all cells of the named column in row order.
func (t *Table) Column(name string) ([]model.Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]model.Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...]]} so
// column order survives encoding.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := make([]json.RawMessage, len(t.Rows))
	for i, row := range t.Rows {
		raw, err := model.MarshalValues(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = raw
	}
	return json.Marshal(struct {
		Columns []string          `json:"columns"`
		Rows    []json.RawMessage `json:"rows"`
	}{Columns: t.Columns, Rows: rows})
}
