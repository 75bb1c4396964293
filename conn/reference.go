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
	"github.com/stockparfait/refdata/frame"
)

// ReferenceRequest are the parameters of a point-in-time reference fetch.
type ReferenceRequest struct {
	Tickers   []string
	Fields    []string
	Overrides []Override
}

func (r *ReferenceRequest) validate() error {
	if len(r.Tickers) == 0 {
		return errors.Reason("at least one ticker is required")
	}
	if len(r.Fields) == 0 {
		return errors.Reason("at least one field is required")
	}
	return nil
}

// build constructs the vendor request.
func (r *ReferenceRequest) build() *blp.Request {
	req := blp.NewRequest(blp.ReferenceDataRequest)
	for _, t := range r.Tickers {
		req.Append("securities", t)
	}
	for _, f := range r.Fields {
		req.Append("fields", f)
	}
	for _, o := range r.Overrides {
		req.AppendOverride(o.Field, o.Value)
	}
	return req
}

// Reference fetches point-in-time reference data. The result is indexed by
// field and columned by ticker, both in request order. An array-valued field
// flattens into a single list of every sub-element value of every array
// entry, in encounter order.
func (c *Connection) Reference(ctx context.Context, req ReferenceRequest) (*frame.Frame, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Annotate(err, "invalid reference request")
	}
	c.drain(ctx)
	if err := c.send(ctx, req.build(), ""); err != nil {
		return nil, err
	}

	b := frame.NewBuilder()
	err := c.collect(ctx, func(msg blp.Message) error {
		return accumulateReference(b, msg, req.Fields, flattenArrays)
	})
	if err != nil {
		return nil, errors.Annotate(err, "reference call failed")
	}
	f, err := b.PivotReference(req.Tickers, req.Fields)
	if err != nil {
		return nil, errors.Annotate(err, "failed to pivot reference records")
	}
	return f, nil
}

// fieldValue extracts one field's value from a fieldData record.
type fieldValue func(el *blp.Element) frame.Value

// flattenArrays flattens an array-valued field into a single list of all
// sub-element values of all entries; scalar fields pass through.
func flattenArrays(el *blp.Element) frame.Value {
	if !el.IsArray() {
		return el.Value()
	}
	var vals []frame.Value
	for i := 0; i < el.NumValues(); i++ {
		entry, err := el.ValueAt(i)
		if err != nil {
			continue
		}
		for _, sub := range entry.Elements() {
			vals = append(vals, sub.Value())
		}
	}
	return vals
}

// scalarOnly reads a field as a plain scalar; used by the time-sliced fetch
// which does not support array-valued fields.
func scalarOnly(el *blp.Element) frame.Value { return el.Value() }

// accumulateReference drains one reference response message into the
// builder. securityData is an array of per-ticker records; a field absent
// from a record's fieldData is skipped, as the vendor omits fields with no
// data.
func accumulateReference(b *frame.Builder, msg blp.Message, fields []string, value fieldValue) error {
	return accumulateReferenceDated(b, msg, fields, value, nil)
}

// accumulateReferenceDated is accumulateReference with an optional record
// decorator, used by the time-sliced fetch to stamp the correlation date.
func accumulateReferenceDated(b *frame.Builder, msg blp.Message, fields []string,
	value fieldValue, decorate func(*frame.Record) error) error {
	secData, err := msg.Element("securityData")
	if err != nil {
		return errors.Annotate(err, "malformed reference response")
	}
	for i := 0; i < secData.NumValues(); i++ {
		entry, err := secData.ValueAt(i)
		if err != nil {
			return errors.Annotate(err, "malformed securityData array")
		}
		security, err := entry.Element("security")
		if err != nil {
			return errors.Annotate(err, "missing security in response")
		}
		ticker, err := asString(security.Value())
		if err != nil {
			return errors.Annotate(err, "malformed security name")
		}
		fieldData, err := entry.Element("fieldData")
		if err != nil {
			return errors.Annotate(err, "missing fieldData in response")
		}
		for _, fld := range fields {
			if !fieldData.HasElement(fld) {
				continue
			}
			el, err := fieldData.Element(fld)
			if err != nil {
				return errors.Annotate(err, "malformed fieldData")
			}
			rec := frame.Record{Ticker: ticker, Field: fld, Value: value(el)}
			if decorate != nil {
				if err := decorate(&rec); err != nil {
					return err
				}
			}
			b.Add(rec)
		}
	}
	return nil
}
