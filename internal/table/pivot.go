package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/caasets/internal/model"
)

// PivotSpec names the columns of a long table to reshape.
type PivotSpec struct {
	// Keys identify a group; they become the leading columns of the
	// wide table, in this order.
	Keys []string

	// Name holds the variable name that becomes a wide column header.
	Name string

	// Value holds the cell for that variable.
	Value string

	// Rank, when set, orders variable columns by this integer column
	// first and by name second. Otherwise columns are ordered by name.
	Rank string
}

// DuplicateCellError reports two long rows for the same group and variable.
type DuplicateCellError struct {
	Group    []string
	Variable string
}

func (e *DuplicateCellError) Error() string {
	return fmt.Sprintf("duplicate value for variable %q in group (%s)", e.Variable, strings.Join(e.Group, ", "))
}

// Pivot reshapes a long table into one row per distinct key tuple and one
// column per distinct variable name. Groups keep their first-appearance
// order. Variables missing from a group are Null. Variable names are
// NFC-normalized before use as headers.
func Pivot(long *Table, spec PivotSpec) (*Table, error) {
	keyIdx := make([]int, len(spec.Keys))
	for i, k := range spec.Keys {
		if keyIdx[i] = long.ColumnIndex(k); keyIdx[i] < 0 {
			return nil, fmt.Errorf("pivot: key column %q not found", k)
		}
	}
	nameIdx := long.ColumnIndex(spec.Name)
	if nameIdx < 0 {
		return nil, fmt.Errorf("pivot: name column %q not found", spec.Name)
	}
	valueIdx := long.ColumnIndex(spec.Value)
	if valueIdx < 0 {
		return nil, fmt.Errorf("pivot: value column %q not found", spec.Value)
	}
	rankIdx := -1
	if spec.Rank != "" {
		if rankIdx = long.ColumnIndex(spec.Rank); rankIdx < 0 {
			return nil, fmt.Errorf("pivot: rank column %q not found", spec.Rank)
		}
	}

	type variable struct {
		name string
		rank int64
	}
	type group struct {
		keys  []model.Value
		cells map[string]model.Value
	}

	var groups []*group
	byKey := make(map[string]*group)
	vars := make(map[string]variable)

	for _, row := range long.Rows {
		keys := make([]model.Value, len(keyIdx))
		parts := make([]string, len(keyIdx))
		for i, idx := range keyIdx {
			keys[i] = row[idx]
			parts[i] = groupPart(row[idx])
		}
		gk := strings.Join(parts, "\x00")

		g, ok := byKey[gk]
		if !ok {
			g = &group{keys: keys, cells: make(map[string]model.Value)}
			byKey[gk] = g
			groups = append(groups, g)
		}

		name := model.CanonicalName(cellString(row[nameIdx]))
		if _, dup := g.cells[name]; dup {
			return nil, &DuplicateCellError{Group: displayParts(keys), Variable: name}
		}
		g.cells[name] = row[valueIdx]

		if _, seen := vars[name]; !seen {
			v := variable{name: name}
			if rankIdx >= 0 {
				if r, ok := row[rankIdx].(model.Int); ok {
					v.rank = int64(r)
				}
			}
			vars[name] = v
		}
	}

	ordered := make([]variable, 0, len(vars))
	for _, v := range vars {
		ordered = append(ordered, v)
	}
	slices.SortFunc(ordered, func(a, b variable) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	columns := slices.Clone(spec.Keys)
	for _, v := range ordered {
		if slices.Contains(spec.Keys, v.name) {
			return nil, fmt.Errorf("pivot: variable %q collides with a key column", v.name)
		}
		columns = append(columns, v.name)
	}

	wide := New(columns)
	for _, g := range groups {
		row := make([]model.Value, 0, len(columns))
		row = append(row, g.keys...)
		for _, v := range ordered {
			cell, ok := g.cells[v.name]
			if !ok {
				cell = model.Null{}
			}
			row = append(row, cell)
		}
		wide.Rows = append(wide.Rows, row)
	}
	return wide, nil
}

// groupPart encodes a key cell so that Int(1) and Text("1") differ.
func groupPart(v model.Value) string {
	switch v.(type) {
	case nil, model.Null:
		return "n:"
	case model.Int:
		return "i:" + v.String()
	case model.Float:
		return "f:" + v.String()
	default:
		return "t:" + v.String()
	}
}

func displayParts(vals []model.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v model.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
