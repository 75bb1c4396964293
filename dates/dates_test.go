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

package dates

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDates(t *testing.T) {
	t.Parallel()

	Convey("Date methods work", t, func() {
		Convey("parsing both wire formats", func() {
			d, err := ParseDate("20230417")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, NewDate(2023, 4, 17))

			d, err = ParseDate("2023-04-17")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, NewDate(2023, 4, 17))

			_, err = ParseDate("April 17")
			So(err, ShouldNotBeNil)
		})

		Convey("rendering", func() {
			d := NewDate(2023, 4, 7)
			So(d.String(), ShouldEqual, "2023-04-07")
			So(d.Compact(), ShouldEqual, "20230407")
		})

		Convey("ordering", func() {
			So(NewDate(2023, 4, 7).Before(NewDate(2023, 4, 8)), ShouldBeTrue)
			So(NewDate(2023, 4, 7).Before(NewDate(2023, 4, 7)), ShouldBeFalse)
			So(NewDate(2023, 5, 1).After(NewDate(2023, 4, 30)), ShouldBeTrue)
			So(NewDate(2024, 1, 1).Before(NewDate(2023, 12, 31)), ShouldBeFalse)
		})

		Convey("JSON round trip", func() {
			d := NewDate(2023, 4, 17)
			js, err := d.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(js), ShouldEqual, `"2023-04-17"`)
			var d2 Date
			So(d2.UnmarshalJSON(js), ShouldBeNil)
			So(d2, ShouldResemble, d)
		})
	})

	Convey("BusinessDays works", t, func() {
		Convey("clips weekends", func() {
			// 2023-04-14 is a Friday.
			days := BusinessDays(NewDate(2023, 4, 14), NewDate(2023, 4, 18))
			So(days, ShouldResemble, []Date{
				NewDate(2023, 4, 14),
				NewDate(2023, 4, 17),
				NewDate(2023, 4, 18),
			})
		})

		Convey("weekend-only range is empty", func() {
			days := BusinessDays(NewDate(2023, 4, 15), NewDate(2023, 4, 16))
			So(days, ShouldBeNil)
		})

		Convey("inverted range is empty", func() {
			days := BusinessDays(NewDate(2023, 4, 18), NewDate(2023, 4, 14))
			So(days, ShouldBeNil)
		})
	})

	Convey("Time methods work", t, func() {
		tm, err := ParseTime("2023-04-17T09:30:00")
		So(err, ShouldBeNil)
		So(tm, ShouldResemble, NewTime(2023, 4, 17, 9, 30, 0))
		So(tm.String(), ShouldEqual, "2023-04-17T09:30:00")
		So(tm.Date(), ShouldResemble, NewDate(2023, 4, 17))
		So(tm.Before(NewTime(2023, 4, 17, 9, 31, 0)), ShouldBeTrue)
		So(tm.ToTime().Location(), ShouldEqual, time.UTC)
	})
}
