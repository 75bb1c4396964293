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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Params are parameters for pretty-printing or CSV export of Frame data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// header row: the index column name followed by the column labels.
func (f *Frame) header() []string {
	h := []string{f.indexName()}
	for _, c := range f.columns {
		h = append(h, c.Label())
	}
	return h
}

// textRow renders the i-th row: the index label followed by the cells.
func (f *Frame) textRow(i int) []string {
	row := []string{f.indexLabel(i)}
	for _, v := range f.cells[i] {
		row = append(row, formatCell(v))
	}
	return row
}

// WriteCSV writes the entire frame to w in CSV format.
func (f *Frame) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader {
		if err := cw.Write(f.header()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i := range f.cells {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := cw.Write(f.textRow(i)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the frame as a text table formatted for ease of reading.
func (f *Frame) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	widths := make([]int, f.NumColumns()+1)
	update := func(row []string) {
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	if !p.NoHeader {
		update(f.header())
	}
	for i := range f.cells {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		update(f.textRow(i))
	}

	if !p.NoHeader {
		if err := write(f.header()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		dashes := make([]string, len(widths))
		for i, w := range widths {
			dashes[i] = strings.Repeat("-", w)
		}
		if err := write(dashes); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i := range f.cells {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := write(f.textRow(i)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
