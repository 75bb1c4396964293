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
	"bytes"
	"testing"

	"github.com/stockparfait/refdata/dates"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	d1 := dates.NewDate(2023, 4, 17)
	d2 := dates.NewDate(2023, 4, 18)

	Convey("PivotTimeSeries", t, func() {
		b := NewBuilder()
		// Records arrive in vendor order: tickers interleaved, dates reversed.
		b.Add(
			Record{Ticker: "MSFT", Field: "PX_LAST", Date: d2, Value: 288.8},
			Record{Ticker: "IBM", Field: "PX_LAST", Date: d2, Value: 127.8},
			Record{Ticker: "MSFT", Field: "PX_LAST", Date: d1, Value: 288.4},
			Record{Ticker: "IBM", Field: "PX_LAST", Date: d1, Value: 128.3},
		)

		Convey("single field collapses to ticker columns in caller order", func() {
			f, err := b.PivotTimeSeries([]string{"MSFT", "IBM"}, []string{"PX_LAST"})
			So(err, ShouldBeNil)
			So(f.Columns(), ShouldResemble, []Column{{Ticker: "MSFT"}, {Ticker: "IBM"}})
			So(f.Dates(), ShouldResemble, []dates.Date{d1, d2})
			So(f.Cell(0, 0), ShouldEqual, 288.4)
			So(f.Cell(0, 1), ShouldEqual, 128.3)
			So(f.Cell(1, 1), ShouldEqual, 127.8)
		})

		Convey("multiple fields yield the sorted cross product", func() {
			b.Add(
				Record{Ticker: "IBM", Field: "VOLUME", Date: d1, Value: 1000},
				Record{Ticker: "MSFT", Field: "VOLUME", Date: d1, Value: 2000},
			)
			f, err := b.PivotTimeSeries([]string{"MSFT", "IBM"}, []string{"VOLUME", "PX_LAST"})
			So(err, ShouldBeNil)
			So(f.Columns(), ShouldResemble, []Column{
				{Ticker: "IBM", Field: "PX_LAST"},
				{Ticker: "IBM", Field: "VOLUME"},
				{Ticker: "MSFT", Field: "PX_LAST"},
				{Ticker: "MSFT", Field: "VOLUME"},
			})
			So(f.Cell(0, 1), ShouldEqual, 1000)
			// VOLUME has no d2 record.
			So(f.Cell(1, 1), ShouldBeNil)
		})

		Convey("collision keeps the last record", func() {
			b.Add(Record{Ticker: "IBM", Field: "PX_LAST", Date: d1, Value: 999.9})
			f, err := b.PivotTimeSeries([]string{"IBM"}, []string{"PX_LAST"})
			So(err, ShouldBeNil)
			So(f.Cell(0, 0), ShouldEqual, 999.9)
		})

		Convey("empty axes are rejected", func() {
			_, err := b.PivotTimeSeries(nil, []string{"PX_LAST"})
			So(err, ShouldNotBeNil)
			_, err = b.PivotTimeSeries([]string{"IBM"}, nil)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("PivotReference", t, func() {
		b := NewBuilder()
		b.Add(
			Record{Ticker: "MSFT", Field: "NAME", Value: "Microsoft Corp"},
			Record{Ticker: "IBM", Field: "CRNCY", Value: "USD"},
			Record{Ticker: "IBM", Field: "NAME", Value: "IBM Corp"},
			Record{Ticker: "MSFT", Field: "CRNCY", Value: "USD"},
		)
		f, err := b.PivotReference([]string{"MSFT", "IBM"}, []string{"CRNCY", "NAME"})
		So(err, ShouldBeNil)
		So(f.Labels(), ShouldResemble, []string{"CRNCY", "NAME"})
		So(f.Columns(), ShouldResemble, []Column{{Ticker: "MSFT"}, {Ticker: "IBM"}})
		So(f.Cell(1, 0), ShouldEqual, "Microsoft Corp")
		So(f.Cell(1, 1), ShouldEqual, "IBM Corp")

		Convey("column extraction", func() {
			vals, err := f.Column(Column{Ticker: "IBM"})
			So(err, ShouldBeNil)
			So(vals, ShouldResemble, []Value{"USD", "IBM Corp"})
			_, err = f.Column(Column{Ticker: "GOOG"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("PivotBars", t, func() {
		t1 := dates.NewTime(2023, 4, 17, 9, 30, 0)
		t2 := dates.NewTime(2023, 4, 17, 9, 31, 0)
		b := NewBuilder()
		// Vendor delivers fields and bars out of order.
		b.Add(
			Record{Field: "volume", Time: t2, Value: 900},
			Record{Field: "close", Time: t2, Value: 128.5},
			Record{Field: "open", Time: t2, Value: 128.2},
			Record{Field: "high", Time: t2, Value: 128.6},
			Record{Field: "low", Time: t2, Value: 128.1},
			Record{Field: "volume", Time: t1, Value: 1000},
			Record{Field: "open", Time: t1, Value: 128.0},
			Record{Field: "high", Time: t1, Value: 128.4},
			Record{Field: "low", Time: t1, Value: 127.9},
			Record{Field: "close", Time: t1, Value: 128.2},
		)
		f, err := b.PivotBars()
		So(err, ShouldBeNil)
		So(f.Columns(), ShouldResemble, []Column{
			{Field: "open"}, {Field: "high"}, {Field: "low"},
			{Field: "close"}, {Field: "volume"},
		})
		So(f.Times(), ShouldResemble, []dates.Time{t1, t2})
		So(f.Cell(0, 0), ShouldEqual, 128.0)
		So(f.Cell(1, 4), ShouldEqual, 900)
	})
}

func TestWriters(t *testing.T) {
	t.Parallel()

	Convey("Frame writers work", t, func() {
		d1 := dates.NewDate(2023, 4, 17)
		d2 := dates.NewDate(2023, 4, 18)
		b := NewBuilder()
		b.Add(
			Record{Ticker: "IBM", Field: "PX_LAST", Date: d1, Value: 128.3},
			Record{Ticker: "IBM", Field: "PX_LAST", Date: d2, Value: 127.8},
		)
		f, err := b.PivotTimeSeries([]string{"IBM"}, []string{"PX_LAST"})
		So(err, ShouldBeNil)

		Convey("WriteCSV", func() {
			var buf bytes.Buffer
			So(f.WriteCSV(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
date,IBM
2023-04-17,128.3
2023-04-18,127.8
`)
		})

		Convey("WriteCSV limited rows, no header", func() {
			var buf bytes.Buffer
			So(f.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
2023-04-17,128.3
`)
		})

		Convey("WriteText", func() {
			var buf bytes.Buffer
			So(f.WriteText(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
      date |   IBM
---------- | -----
2023-04-17 | 128.3
2023-04-18 | 127.8
`)
		})

		Convey("WriteText rejects tiny MaxColWidth", func() {
			var buf bytes.Buffer
			So(f.WriteText(&buf, Params{MaxColWidth: 3}), ShouldNotBeNil)
		})
	})
}
