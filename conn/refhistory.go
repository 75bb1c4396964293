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
	"github.com/stockparfait/logging"
	"github.com/stockparfait/refdata/blp"
	"github.com/stockparfait/refdata/dates"
	"github.com/stockparfait/refdata/frame"
)

// defaultRefHistoryTimeout is the terminal wait of a time-sliced fetch when
// the caller does not set one.
const defaultRefHistoryTimeout = 2 * time.Second

// ReferenceHistoryRequest are the parameters of a time-sliced reference
// fetch: one reference request per business day in [Start, End], each with
// the reference date overridden.
type ReferenceHistoryRequest struct {
	Tickers []string
	Fields  []string
	Start   dates.Date
	End     dates.Date
	// Timeout is the terminal wait: the fetch completes when no event arrives
	// within it. Too short a timeout surfaces as a *TimeoutError. Default: 2s.
	Timeout time.Duration
}

func (r *ReferenceHistoryRequest) validate() error {
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
	if r.Timeout <= 0 {
		r.Timeout = defaultRefHistoryTimeout
	}
	return nil
}

// ReferenceHistory fetches reference data once per business day in the
// requested range, overriding REFERENCE_DATE and tagging each request with
// the date as its correlation key. The result is shaped like History's.
//
// Correlation keys must be unique within a session's lifetime and no per-call
// key allocator is maintained, so the session is restarted at the start of
// every call; callers relying on pending events from earlier calls lose them.
//
// The terminal condition is a timeout rather than a completion signal:
// responses to the per-day requests interleave, and the call is done when the
// session goes quiet with all tickers x fields x days records accumulated. A
// shortfall at that point is a hard *TimeoutError, not a partial result.
func (c *Connection) ReferenceHistory(ctx context.Context, req ReferenceHistoryRequest) (*frame.Frame, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Annotate(err, "invalid reference history request")
	}
	days := dates.BusinessDays(req.Start, req.End)
	if len(days) == 0 {
		return nil, errors.Reason("no business days in range %s..%s",
			req.Start, req.End)
	}
	if err := c.Restart(ctx); err != nil {
		return nil, errors.Annotate(err, "failed to restart session")
	}

	for _, day := range days {
		r := ReferenceRequest{Tickers: req.Tickers, Fields: req.Fields}
		breq := r.build()
		breq.AppendOverride("REFERENCE_DATE", day.Compact())
		if err := c.send(ctx, breq, day.Compact()); err != nil {
			return nil, err
		}
	}
	logging.Debugf(ctx, "sent %d per-day requests for %s..%s",
		len(days), req.Start, req.End)

	expected := len(days) * len(req.Tickers) * len(req.Fields)
	b := frame.NewBuilder()
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Annotate(err, "call canceled")
		}
		ev, err := c.session.NextEvent(req.Timeout)
		if err != nil {
			return nil, errors.Annotate(err, "failed to poll for the next event")
		}
		if ev.Type == blp.TimeoutEvent {
			if b.Len() == expected {
				break
			}
			return nil, &TimeoutError{Expected: expected, Accumulated: b.Len()}
		}
		if ev.Type != blp.PartialResponseEvent && ev.Type != blp.ResponseEvent {
			continue
		}
		for _, msg := range ev.Messages {
			logging.Debugf(ctx, "message received: %s [%s]", msg.Name, msg.CorrelationKey)
			date, err := dates.ParseDate(msg.CorrelationKey)
			if err != nil {
				return nil, errors.Annotate(err, "malformed correlation key '%s'",
					msg.CorrelationKey)
			}
			err = accumulateReferenceDated(b, msg, req.Fields, scalarOnly,
				func(rec *frame.Record) error {
					rec.Date = date
					return nil
				})
			if err != nil {
				return nil, errors.Annotate(err, "reference history call failed")
			}
		}
	}

	f, err := b.PivotTimeSeries(req.Tickers, req.Fields)
	if err != nil {
		return nil, errors.Annotate(err, "failed to pivot reference history records")
	}
	return f, nil
}
