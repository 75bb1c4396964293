// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package frame implements the rectangular result tables of the data-fetch
// calls: a typed intermediate record list, and explicit pivot steps with
// well-defined axis ordering and a last-write-wins collision rule.
package frame

import (
	"fmt"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/refdata/dates"
)

// Value is an arbitrary value of a table cell. A missing cell is nil.
// Array-valued reference fields hold a []Value of flattened sub-elements.
type Value interface{}

// Column identifies one table column. Ticker-only columns come from
// single-field requests, field-only columns from intraday bars, and
// two-level columns from multi-field requests.
type Column struct {
	Ticker string
	Field  string
}

// Label renders the column for table headers.
func (c Column) Label() string {
	switch {
	case c.Ticker == "":
		return c.Field
	case c.Field == "":
		return c.Ticker
	}
	return c.Ticker + ":" + c.Field
}

// less orders columns lexicographically by (ticker, field).
func (c Column) less(c2 Column) bool {
	if c.Ticker != c2.Ticker {
		return c.Ticker < c2.Ticker
	}
	return c.Field < c2.Field
}

// Frame is a rectangular result table with an ordered row index and ordered
// columns. Exactly one of the index accessors is populated: Dates for
// historical and time-sliced results, Times for intraday bars, and Labels
// for point-in-time reference results.
type Frame struct {
	columns []Column
	dates   []dates.Date
	times   []dates.Time
	labels  []string
	cells   [][]Value // row-major, aligned with columns
}

// NumRows of the frame.
func (f *Frame) NumRows() int { return len(f.cells) }

// NumColumns of the frame.
func (f *Frame) NumColumns() int { return len(f.columns) }

// Columns in order.
func (f *Frame) Columns() []Column { return f.columns }

// Dates is the row index of a date-indexed frame, ascending.
func (f *Frame) Dates() []dates.Date { return f.dates }

// Times is the row index of a time-indexed frame, ascending.
func (f *Frame) Times() []dates.Time { return f.times }

// Labels is the row index of a field-indexed frame, in caller order.
func (f *Frame) Labels() []string { return f.labels }

// Cell value at (row, col) position; nil for a missing value.
func (f *Frame) Cell(row, col int) Value { return f.cells[row][col] }

// Column extracts the values of the given column, in row order.
func (f *Frame) Column(c Column) ([]Value, error) {
	for i, fc := range f.columns {
		if fc == c {
			vals := make([]Value, len(f.cells))
			for r, row := range f.cells {
				vals[r] = row[i]
			}
			return vals, nil
		}
	}
	return nil, errors.Reason("no column '%s' in frame", c.Label())
}

// indexName is the header of the index column.
func (f *Frame) indexName() string {
	switch {
	case f.labels != nil:
		return "field"
	case f.times != nil:
		return "time"
	}
	return "date"
}

// indexLabel renders the i-th row key.
func (f *Frame) indexLabel(i int) string {
	switch {
	case f.labels != nil:
		return f.labels[i]
	case f.times != nil:
		return f.times[i].String()
	}
	return f.dates[i].String()
}

// formatCell renders a cell value; a missing cell renders empty.
func formatCell(v Value) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
