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

// Package dates implements compact calendar types for vendor requests and
// responses. The vendor speaks two flavors of timestamps: compact dates
// ("20060102") for daily data, and second-resolution datetimes
// ("2006-01-02T15:04:05") for intraday data.
package dates

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparfait/errors"
)

// Date records a calendar date as year, month and day. It fits into 4 bytes.
type Date struct {
	year  uint16
	month uint8
	day   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}

// NewDate is the constructor for Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{year: uint16(year), month: uint8(month), day: uint8(day)}
}

// NewDateFromTime creates a Date from the calendar date of t.
func NewDateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// dateFormats accepted by ParseDate, in the order they are tried.
var dateFormats = []string{
	"20060102",
	"2006-01-02",
}

// ParseDate parses a date string in either the vendor's compact "20060102"
// format or the ISO "2006-01-02" format.
func ParseDate(s string) (Date, error) {
	var err error
	for _, f := range dateFormats {
		var t time.Time
		if t, err = time.Parse(f, s); err == nil {
			return NewDateFromTime(t), nil
		}
	}
	return Date{}, errors.Annotate(err, "failed to parse date '%s'", s)
}

// Year of the date.
func (d Date) Year() int { return int(d.year) }

// Month of the date.
func (d Date) Month() time.Month { return time.Month(d.month) }

// Day of the month.
func (d Date) Day() int { return int(d.day) }

// String renders the date in the ISO "2006-01-02" format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.month, d.day)
}

// Compact renders the date in the vendor's "20060102" wire format.
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year(), d.month, d.day)
}

// ToTime converts the date to midnight UTC.
func (d Date) ToTime() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// IsZero checks whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Before compares two dates for strict inequality, self < d2.
func (d Date) Before(d2 Date) bool {
	if d.year != d2.year {
		return d.year < d2.year
	}
	if d.month != d2.month {
		return d.month < d2.month
	}
	return d.day < d2.day
}

// After compares two dates for strict inequality, self > d2.
func (d Date) After(d2 Date) bool { return d2.Before(d) }

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Note, that this is a pointer
// method.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	date, err := ParseDate(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse Date string")
	}
	*d = date
	return nil
}

// BusinessDays lists the Monday-Friday dates in the inclusive [start, end]
// range, in ascending order. An empty or inverted range yields nil.
func BusinessDays(start, end Date) []Date {
	var days []Date
	for t := start.ToTime(); !end.ToTime().Before(t); t = t.AddDate(0, 0, 1) {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, NewDateFromTime(t))
	}
	return days
}
