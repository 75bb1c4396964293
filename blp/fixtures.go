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

package blp

// Vendor-shaped message builders for use in tests and replay fixtures,
// mirroring the element layout of the reference-data service responses.

// TestResponse wraps messages into a terminal ResponseEvent.
func TestResponse(msgs ...Message) Event {
	return Event{Type: ResponseEvent, Messages: msgs}
}

// TestPartial wraps messages into a PartialResponseEvent.
func TestPartial(msgs ...Message) Event {
	return Event{Type: PartialResponseEvent, Messages: msgs}
}

// TestHistoryMessage builds a HistoricalDataResponse message for one ticker.
// Each row is a date string followed by one value per field, in field order.
func TestHistoryMessage(ticker string, fields []string, rows [][]any) Message {
	entries := make([]*Element, len(rows))
	for i, row := range rows {
		children := []*Element{Scalar("date", row[0])}
		for j, f := range fields {
			if j+1 < len(row) {
				children = append(children, Scalar(f, row[j+1]))
			}
		}
		entries[i] = Complex("", children...)
	}
	return Message{
		Name: "HistoricalDataResponse",
		Body: Complex("",
			Complex("securityData",
				Scalar("security", ticker),
				Array("fieldData", entries...))),
	}
}

// TestSecurityError builds a HistoricalDataResponse message carrying a
// security-level error for the ticker.
func TestSecurityError(ticker, category, text string) Message {
	return Message{
		Name: "HistoricalDataResponse",
		Body: Complex("",
			Complex("securityData",
				Scalar("security", ticker),
				Complex("securityError",
					Scalar("category", category),
					Scalar("message", text)))),
	}
}

// RefValues holds one ticker's field values for a reference response. A value
// is either a scalar, or [][]any for an array-valued field, where each inner
// slice is one array entry's sub-element values.
type RefValues struct {
	Ticker string
	Values map[string]any
}

// TestReferenceMessage builds a ReferenceDataResponse message. Fields are
// emitted in the given order; fields absent from a ticker's Values map are
// omitted, as the vendor does for fields with no data.
func TestReferenceMessage(correlationKey string, fields []string, tickers ...RefValues) Message {
	entries := make([]*Element, len(tickers))
	for i, tv := range tickers {
		var fieldData []*Element
		for _, f := range fields {
			v, ok := tv.Values[f]
			if !ok {
				continue
			}
			if rows, ok := v.([][]any); ok {
				arr := make([]*Element, len(rows))
				for k, row := range rows {
					subs := make([]*Element, len(row))
					for l, sub := range row {
						subs[l] = Scalar("", sub)
					}
					arr[k] = Complex("", subs...)
				}
				fieldData = append(fieldData, Array(f, arr...))
				continue
			}
			fieldData = append(fieldData, Scalar(f, v))
		}
		entries[i] = Complex("",
			Scalar("security", tv.Ticker),
			Complex("fieldData", fieldData...))
	}
	return Message{
		Name:           "ReferenceDataResponse",
		CorrelationKey: correlationKey,
		Body:           Complex("", Array("securityData", entries...)),
	}
}

// TestBarMessage builds an IntradayBarResponse message. Each row is a
// timestamp string followed by open, high, low, close and volume values.
func TestBarMessage(rows [][]any) Message {
	names := []string{"time", "open", "high", "low", "close", "volume"}
	entries := make([]*Element, len(rows))
	for i, row := range rows {
		children := make([]*Element, 0, len(names))
		for j, name := range names {
			if j < len(row) {
				children = append(children, Scalar(name, row[j]))
			}
		}
		entries[i] = Complex("", children...)
	}
	return Message{
		Name: "IntradayBarResponse",
		Body: Complex("",
			Complex("barData",
				Array("barTickData", entries...))),
	}
}
