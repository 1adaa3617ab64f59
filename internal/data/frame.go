// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"fmt"
	"sort"
)

// Frame is an in-memory, column-oriented table.
//
// Values are stored as any and are typically int64, float64, string, bool,
// time.Time, or nil. A Frame is not safe for concurrent mutation; connectors
// hand out fresh frames and transforms return new ones.
type Frame struct {
	columns []string
	index   map[string]int
	values  [][]any
	rows    int
}

// NewFrame creates an empty frame with the given column order.
// Duplicate column names are collapsed to their first occurrence.
func NewFrame(columns ...string) *Frame {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		f.addColumn(c)
	}
	return f
}

func (f *Frame) addColumn(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	f.values = append(f.values, make([]any, f.rows))
	return len(f.columns) - 1
}

// Append adds a row. The number of values must match the column count.
func (f *Frame) Append(values ...any) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("append row: got %d values for %d columns", len(values), len(f.columns))
	}
	for i, v := range values {
		f.values[i] = append(f.values[i], v)
	}
	f.rows++
	return nil
}

// AppendMap adds a row from a column→value map. Unknown keys become new
// columns in sorted order, backfilled with nil for earlier rows; missing
// keys are nil.
func (f *Frame) AppendMap(row map[string]any) {
	keys := make([]string, 0, len(row))
	for k := range row {
		if !f.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		f.addColumn(k)
	}
	for i, c := range f.columns {
		f.values[i] = append(f.values[i], row[c])
	}
	f.rows++
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// Column returns the values of a column. The returned slice is shared with
// the frame and must not be modified.
func (f *Frame) Column(name string) ([]any, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.values[i], true
}

// Value returns a single cell, or nil when the column does not exist.
func (f *Frame) Value(row int, column string) any {
	i, ok := f.index[column]
	if !ok {
		return nil
	}
	return f.values[i][row]
}

// Row returns row i as a column→value map.
func (f *Frame) Row(i int) map[string]any {
	out := make(map[string]any, len(f.columns))
	for c, name := range f.columns {
		out[name] = f.values[c][i]
	}
	return out
}

// SetColumn replaces or adds a column. len(values) must equal Len().
func (f *Frame) SetColumn(name string, values []any) error {
	if len(values) != f.rows {
		return fmt.Errorf("set column %q: got %d values for %d rows", name, len(values), f.rows)
	}
	i := f.addColumn(name)
	f.values[i] = values
	return nil
}

// Filter returns a new frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	out := NewFrame(f.columns...)
	for r := 0; r < f.rows; r++ {
		if !keep(r) {
			continue
		}
		for c := range f.columns {
			out.values[c] = append(out.values[c], f.values[c][r])
		}
		out.rows++
	}
	return out
}

// Clone returns a deep copy of the frame's column slices.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.columns...)
	for c := range f.columns {
		out.values[c] = append([]any(nil), f.values[c]...)
	}
	out.rows = f.rows
	return out
}
