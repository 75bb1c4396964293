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

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stockparfait/errors"
)

// RefDataService is the service URI for historical, reference and intraday
// bar requests.
const RefDataService = "//blp/refdata"

// EventType marks the kind of a delivered event.
type EventType int

const (
	// OtherEvent is any administrative event this layer does not interpret.
	OtherEvent EventType = iota
	// PartialResponseEvent carries messages of an incomplete response.
	PartialResponseEvent
	// ResponseEvent carries the final messages of a response; the terminal
	// signal for single-request calls.
	ResponseEvent
	// TimeoutEvent signals that no event arrived within the poll timeout; the
	// terminal signal for time-sliced calls.
	TimeoutEvent
)

var eventTypeNames = map[EventType]string{
	OtherEvent:           "OTHER",
	PartialResponseEvent: "PARTIAL_RESPONSE",
	ResponseEvent:        "RESPONSE",
	TimeoutEvent:         "TIMEOUT",
}

// String renders the event type name.
func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var _ json.Marshaler = EventType(0)
var _ json.Unmarshaler = (*EventType)(nil)

// MarshalJSON implements json.Marshaler.
func (t EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "EventType JSON must be a string")
	}
	for et, name := range eventTypeNames {
		if s == name {
			*t = et
			return nil
		}
	}
	return errors.Reason("unknown event type '%s'", s)
}

// Message is a single response message: a name, an optional correlation key
// echoing the one the request was sent with, and the message body.
type Message struct {
	Name           string   `json:"name"`
	CorrelationKey string   `json:"correlation,omitempty"`
	Body           *Element `json:"body"`
}

// HasElement checks if the message body has a top-level element of the given
// name.
func (m Message) HasElement(name string) bool {
	return m.Body != nil && m.Body.HasElement(name)
}

// Element returns the named top-level element of the message body.
func (m Message) Element(name string) (*Element, error) {
	if m.Body == nil {
		return nil, errors.Reason("message '%s' has no body", m.Name)
	}
	return m.Body.Element(name)
}

// Event is a batch of messages delivered by one session poll.
type Event struct {
	Type     EventType `json:"type"`
	Messages []Message `json:"messages,omitempty"`
}

// Session is the contract of the vendor's session object consumed by this
// repository. The real implementation lives in the vendor's closed library;
// its lifecycle mechanics are out of scope here.
type Session interface {
	// Start establishes the session.
	Start(ctx context.Context) error
	// Stop tears the session down.
	Stop() error
	// OpenService makes the named service available for requests.
	OpenService(ctx context.Context, uri string) error
	// Send submits a request, tagged with a correlation key. Keys must be
	// unique within the session's lifetime; an empty key lets the vendor
	// allocate one.
	Send(req *Request, correlationKey string) error
	// NextEvent blocks until the next event arrives, or the timeout elapses,
	// in which case it delivers an event of type TimeoutEvent.
	NextEvent(timeout time.Duration) (Event, error)
	// TryNextEvent returns a pending event without blocking; ok is false when
	// none is queued.
	TryNextEvent() (Event, bool)
}

// Dialer creates a fresh session. The time-sliced call style restarts its
// session per call, so the dialer is retained for the lifetime of a
// connection.
type Dialer func(ctx context.Context) (Session, error)
