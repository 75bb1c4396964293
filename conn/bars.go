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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/refdata/blp"
	"github.com/stockparfait/refdata/dates"
	"github.com/stockparfait/refdata/frame"
)

// BarEventType selects which quote events an intraday bar aggregates.
type BarEventType string

// BarEventType values accepted by the vendor.
const (
	Trade   = BarEventType("TRADE")
	Bid     = BarEventType("BID")
	Ask     = BarEventType("ASK")
	BidBest = BarEventType("BID_BEST")
	AskBest = BarEventType("ASK_BEST")
	BestBid = BarEventType("BEST_BID")
	BestAsk = BarEventType("BEST_ASK")
)

var barEventTypes = map[BarEventType]bool{
	Trade: true, Bid: true, Ask: true, BidBest: true,
	AskBest: true, BestBid: true, BestAsk: true,
}

// BarsRequest are the parameters of an intraday bar fetch for one ticker.
type BarsRequest struct {
	Ticker    string
	Start     dates.Time
	End       dates.Time
	EventType BarEventType // default: TRADE
	Interval  int          // bar length in minutes, 1..1440; default: 1
}

func (r *BarsRequest) validate() error {
	if r.Ticker == "" {
		return errors.Reason("a ticker is required")
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.Reason("start and end times are required")
	}
	if r.EventType == "" {
		r.EventType = Trade
	}
	if !barEventTypes[r.EventType] {
		return errors.Reason("invalid bar event type '%s'", r.EventType)
	}
	if r.Interval == 0 {
		r.Interval = 1
	}
	if r.Interval < 1 || r.Interval > 1440 {
		return errors.Reason("bar interval [%d] must be in 1..1440 minutes",
			r.Interval)
	}
	return nil
}

// build constructs the vendor request.
func (r *BarsRequest) build() *blp.Request {
	req := blp.NewRequest(blp.IntradayBarRequest)
	req.Set("security", r.Ticker)
	req.Set("eventType", string(r.EventType))
	req.Set("interval", r.Interval)
	req.Set("startDateTime", r.Start.String())
	req.Set("endDateTime", r.End.String())
	return req
}

// IntradayBars fetches open/high/low/close/volume bars for one ticker. The
// result is indexed by bar timestamp in ascending order, with the fixed
// column order [open, high, low, close, volume] regardless of the order the
// vendor delivers the fields in.
func (c *Connection) IntradayBars(ctx context.Context, req BarsRequest) (*frame.Frame, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Annotate(err, "invalid bars request")
	}
	c.drain(ctx)
	if err := c.send(ctx, req.build(), ""); err != nil {
		return nil, err
	}

	b := frame.NewBuilder()
	err := c.collect(ctx, func(msg blp.Message) error {
		return accumulateBars(b, msg)
	})
	if err != nil {
		return nil, errors.Annotate(err, "intraday bars call failed")
	}
	f, err := b.PivotBars()
	if err != nil {
		return nil, errors.Annotate(err, "failed to pivot bar records")
	}
	return f, nil
}

// accumulateBars drains one intraday bar response message into the builder.
// Each barTickData entry is a record whose first child is the bar timestamp.
func accumulateBars(b *frame.Builder, msg blp.Message) error {
	barData, err := msg.Element("barData")
	if err != nil {
		return errors.Annotate(err, "malformed bar response")
	}
	barTick, err := barData.Element("barTickData")
	if err != nil {
		return errors.Annotate(err, "missing barTickData in response")
	}
	for i := 0; i < barTick.NumValues(); i++ {
		entry, err := barTick.ValueAt(i)
		if err != nil {
			return errors.Annotate(err, "malformed barTickData array")
		}
		timeEl, err := entry.ElementAt(0)
		if err != nil {
			return errors.Annotate(err, "missing timestamp in bar entry")
		}
		ts, err := asString(timeEl.Value())
		if err != nil {
			return errors.Annotate(err, "malformed bar timestamp")
		}
		barTime, err := dates.ParseTime(ts)
		if err != nil {
			return errors.Annotate(err, "failed to parse bar timestamp")
		}
		for _, fld := range frame.BarFields {
			el, err := entry.Element(fld)
			if err != nil {
				return errors.Annotate(err, "missing %s in bar entry", fld)
			}
			// Bar responses carry no security element; the bar pivot keys
			// cells by (time, field) only.
			b.Add(frame.Record{
				Field: fld,
				Time:  barTime,
				Value: el.Value(),
			})
		}
	}
	return nil
}
