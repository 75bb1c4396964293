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
	"encoding/json"
	"time"

	"github.com/stockparfait/errors"
)

// Time is a wrapper around time.Time with vendor wire formatting and JSON
// methods. Intraday bar timestamps are in UTC with second resolution.
type Time time.Time

var _ json.Marshaler = &Time{}
var _ json.Unmarshaler = &Time{}

// NewTime is the constructor for Time.
func NewTime(year int, month time.Month, day, hour, minute, second int) Time {
	return Time(time.Date(year, month, day, hour, minute, second, 0, time.UTC))
}

// timeFormats accepted by ParseTime, in the order they are tried.
var timeFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a datetime string in the vendor's "2006-01-02T15:04:05"
// wire format, or a couple of common near-variants.
func ParseTime(s string) (Time, error) {
	var err error
	for _, f := range timeFormats {
		var t time.Time
		if t, err = time.Parse(f, s); err == nil {
			return Time(t), nil
		}
	}
	return Time{}, errors.Annotate(err, "failed to parse time '%s'", s)
}

// ToTime converts to the standard library type.
func (t Time) ToTime() time.Time { return time.Time(t) }

// Date truncates the time to its calendar date.
func (t Time) Date() Date { return NewDateFromTime(t.ToTime()) }

// String renders the time in the vendor's wire format.
func (t Time) String() string {
	return t.ToTime().Format("2006-01-02T15:04:05")
}

// IsZero checks whether the time is the zero value.
func (t Time) IsZero() bool { return t.ToTime().IsZero() }

// Before compares two times for strict inequality, self < t2.
func (t Time) Before(t2 Time) bool { return t.ToTime().Before(t2.ToTime()) }

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Time JSON must be a string")
	}
	tm, err := ParseTime(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse Time string")
	}
	*t = tm
	return nil
}
