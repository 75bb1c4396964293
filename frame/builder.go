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

package frame

import (
	"github.com/stockparfait/errors"
	"github.com/stockparfait/refdata/dates"
	"golang.org/x/exp/slices"
)

// Record is one accumulated (ticker, field, timestamp, value) tuple drained
// from a response event. Date is set for historical and time-sliced records,
// Time for intraday bars, neither for point-in-time reference records.
type Record struct {
	Ticker string
	Field  string
	Date   dates.Date
	Time   dates.Time
	Value  Value
}

// Builder accumulates records during the event-draining loop and pivots them
// into a Frame once the terminal signal is observed. When several records
// land on the same cell, the last one wins.
type Builder struct {
	records []Record
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends records.
func (b *Builder) Add(recs ...Record) {
	b.records = append(b.records, recs...)
}

// Len is the number of accumulated records.
func (b *Builder) Len() int { return len(b.records) }

// Records accumulated so far, in arrival order.
func (b *Builder) Records() []Record { return b.records }

// timeSeriesColumns lists the output columns of a date-indexed pivot: the
// full (ticker, field) cross product sorted lexicographically, collapsed to
// ticker-only columns in caller order when exactly one field is requested.
func timeSeriesColumns(tickers, fields []string) []Column {
	if len(fields) == 1 {
		cols := make([]Column, len(tickers))
		for i, t := range tickers {
			cols[i] = Column{Ticker: t}
		}
		return cols
	}
	cols := make([]Column, 0, len(tickers)*len(fields))
	for _, t := range tickers {
		for _, f := range fields {
			cols = append(cols, Column{Ticker: t, Field: f})
		}
	}
	slices.SortFunc(cols, func(a, b Column) bool { return a.less(b) })
	return cols
}

// PivotTimeSeries pivots date-carrying records into a date-indexed frame.
// Rows are the distinct record dates in ascending order, regardless of the
// order the vendor delivered them in.
func (b *Builder) PivotTimeSeries(tickers, fields []string) (*Frame, error) {
	if len(tickers) == 0 || len(fields) == 0 {
		return nil, errors.Reason("tickers and fields must be non-empty")
	}
	type key struct {
		date   dates.Date
		ticker string
		field  string
	}
	cells := make(map[key]Value)
	var index []dates.Date
	for _, r := range b.records {
		k := key{r.Date, r.Ticker, r.Field}
		if _, ok := cells[k]; !ok {
			seen := false
			for _, d := range index {
				if d == r.Date {
					seen = true
					break
				}
			}
			if !seen {
				index = append(index, r.Date)
			}
		}
		cells[k] = r.Value
	}
	slices.SortFunc(index, func(a, b dates.Date) bool { return a.Before(b) })

	cols := timeSeriesColumns(tickers, fields)
	f := &Frame{columns: cols, dates: index}
	for _, d := range index {
		row := make([]Value, len(cols))
		for i, c := range cols {
			field := c.Field
			if field == "" {
				field = fields[0]
			}
			row[i] = cells[key{d, c.Ticker, field}]
		}
		f.cells = append(f.cells, row)
	}
	return f, nil
}

// PivotReference pivots point-in-time reference records into a field-indexed
// frame: one row per requested field in caller order, one column per
// requested ticker in caller order.
func (b *Builder) PivotReference(tickers, fields []string) (*Frame, error) {
	if len(tickers) == 0 || len(fields) == 0 {
		return nil, errors.Reason("tickers and fields must be non-empty")
	}
	type key struct{ field, ticker string }
	cells := make(map[key]Value)
	for _, r := range b.records {
		cells[key{r.Field, r.Ticker}] = r.Value
	}
	cols := make([]Column, len(tickers))
	for i, t := range tickers {
		cols[i] = Column{Ticker: t}
	}
	f := &Frame{columns: cols, labels: fields}
	for _, fld := range fields {
		row := make([]Value, len(cols))
		for i, t := range tickers {
			row[i] = cells[key{fld, t}]
		}
		f.cells = append(f.cells, row)
	}
	return f, nil
}

// BarFields is the fixed column order of an intraday bar frame.
var BarFields = []string{"open", "high", "low", "close", "volume"}

// PivotBars pivots time-carrying bar records into a time-indexed frame with
// the fixed [open, high, low, close, volume] column order, regardless of the
// order the vendor delivered the fields in.
func (b *Builder) PivotBars() (*Frame, error) {
	type key struct {
		time  dates.Time
		field string
	}
	cells := make(map[key]Value)
	var index []dates.Time
	for _, r := range b.records {
		k := key{r.Time, r.Field}
		if _, ok := cells[k]; !ok {
			seen := false
			for _, t := range index {
				if t == r.Time {
					seen = true
					break
				}
			}
			if !seen {
				index = append(index, r.Time)
			}
		}
		cells[k] = r.Value
	}
	slices.SortFunc(index, func(a, b dates.Time) bool { return a.Before(b) })

	cols := make([]Column, len(BarFields))
	for i, fld := range BarFields {
		cols[i] = Column{Field: fld}
	}
	f := &Frame{columns: cols, times: index}
	for _, t := range index {
		row := make([]Value, len(cols))
		for i, fld := range BarFields {
			row[i] = cells[key{t, fld}]
		}
		f.cells = append(f.cells, row)
	}
	return f, nil
}
