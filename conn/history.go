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

package conn

import (
	"context"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/refdata/blp"
	"github.com/stockparfait/refdata/dates"
	"github.com/stockparfait/refdata/frame"
)

// Periodicity of a historical time series.
type Periodicity string

// Periodicity values accepted by the vendor.
const (
	Daily        = Periodicity("DAILY")
	Weekly       = Periodicity("WEEKLY")
	Monthly      = Periodicity("MONTHLY")
	Quarterly    = Periodicity("QUARTERLY")
	SemiAnnually = Periodicity("SEMI_ANNUALLY")
	Yearly       = Periodicity("YEARLY")
)

var periodicities = map[Periodicity]bool{
	Daily: true, Weekly: true, Monthly: true,
	Quarterly: true, SemiAnnually: true, Yearly: true,
}

// Override is a (field, value) request override pair.
type Override struct {
	Field string
	Value string
}

// HistoryRequest are the parameters of a historical time-series fetch.
// Ticker and field order is significant: it defines the output column order.
type HistoryRequest struct {
	Tickers     []string
	Fields      []string
	Start       dates.Date
	End         dates.Date  // default: today (UTC)
	Periodicity Periodicity // default: DAILY
	Overrides   []Override
}

func (r *HistoryRequest) validate() error {
	if len(r.Tickers) == 0 {
		return errors.Reason("at least one ticker is required")
	}
	if len(r.Fields) == 0 {
		return errors.Reason("at least one field is required")
	}
	if r.Start.IsZero() {
		return errors.Reason("start date is required")
	}
	if r.End.IsZero() {
		r.End = dates.NewDateFromTime(time.Now().UTC())
	}
	if r.Periodicity == "" {
		r.Periodicity = Daily
	}
	if !periodicities[r.Periodicity] {
		return errors.Reason("invalid periodicity '%s'", r.Periodicity)
	}
	return nil
}

// build constructs the vendor request.
func (r *HistoryRequest) build() *blp.Request {
	req := blp.NewRequest(blp.HistoricalDataRequest)
	for _, t := range r.Tickers {
		req.Append("securities", t)
	}
	for _, f := range r.Fields {
		req.Append("fields", f)
	}
	req.Set("periodicityAdjustment", "ACTUAL")
	req.Set("periodicitySelection", string(r.Periodicity))
	req.Set("startDate", r.Start.Compact())
	req.Set("endDate", r.End.Compact())
	for _, o := range r.Overrides {
		req.AppendOverride(o.Field, o.Value)
	}
	return req
}

// History fetches a historical time series for the requested tickers and
// fields. The result is indexed by date in ascending order. With multiple
// fields the columns are the sorted (ticker, field) cross product; with a
// single field they collapse to ticker-only columns in request order. A
// security-level error for any ticker aborts the call with a *LookupError.
func (c *Connection) History(ctx context.Context, req HistoryRequest) (*frame.Frame, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Annotate(err, "invalid history request")
	}
	c.drain(ctx)
	if err := c.send(ctx, req.build(), ""); err != nil {
		return nil, err
	}

	b := frame.NewBuilder()
	err := c.collect(ctx, func(msg blp.Message) error {
		return accumulateHistory(b, msg, req.Fields)
	})
	if err != nil {
		// A *LookupError is part of the call's contract; pass it through
		// unwrapped.
		if _, ok := err.(*LookupError); ok {
			return nil, err
		}
		return nil, errors.Annotate(err, "history call failed")
	}
	f, err := b.PivotTimeSeries(req.Tickers, req.Fields)
	if err != nil {
		return nil, errors.Annotate(err, "failed to pivot history records")
	}
	return f, nil
}

// accumulateHistory drains one historical response message into the builder.
// Each fieldData entry is a record whose first child is the date, followed by
// one value per requested field, in request order.
func accumulateHistory(b *frame.Builder, msg blp.Message, fields []string) error {
	secData, err := msg.Element("securityData")
	if err != nil {
		return errors.Annotate(err, "malformed historical response")
	}
	if secErr, err := secData.Element("securityError"); err == nil {
		return lookupError(secData, secErr)
	}
	security, err := secData.Element("security")
	if err != nil {
		return errors.Annotate(err, "missing security in response")
	}
	ticker, err := asString(security.Value())
	if err != nil {
		return errors.Annotate(err, "malformed security name")
	}
	fieldData, err := secData.Element("fieldData")
	if err != nil {
		return errors.Annotate(err, "missing fieldData in response")
	}
	for i := 0; i < fieldData.NumValues(); i++ {
		entry, err := fieldData.ValueAt(i)
		if err != nil {
			return errors.Annotate(err, "malformed fieldData array")
		}
		dateEl, err := entry.ElementAt(0)
		if err != nil {
			return errors.Annotate(err, "missing date in fieldData entry")
		}
		ds, err := asString(dateEl.Value())
		if err != nil {
			return errors.Annotate(err, "malformed date value")
		}
		date, err := dates.ParseDate(ds)
		if err != nil {
			return errors.Annotate(err, "failed to parse fieldData date")
		}
		for j := 1; j < entry.NumElements(); j++ {
			if j-1 >= len(fields) {
				return errors.Reason(
					"fieldData entry has %d values for %d requested fields",
					entry.NumElements()-1, len(fields))
			}
			el, err := entry.ElementAt(j)
			if err != nil {
				return errors.Annotate(err, "malformed fieldData entry")
			}
			b.Add(frame.Record{
				Ticker: ticker,
				Field:  fields[j-1],
				Date:   date,
				Value:  el.Value(),
			})
		}
	}
	return nil
}

// lookupError builds a *LookupError from a securityError element.
func lookupError(secData, secErr *blp.Element) error {
	e := LookupError{}
	if security, err := secData.Element("security"); err == nil {
		e.Ticker, _ = asString(security.Value())
	}
	if category, err := secErr.Element("category"); err == nil {
		e.Category, _ = asString(category.Value())
	}
	if detail, err := secErr.Element("message"); err == nil {
		e.Detail, _ = asString(detail.Value())
	}
	return &e
}
