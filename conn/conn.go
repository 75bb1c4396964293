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

// Package conn implements the data-fetch call surface over a vendor session:
// historical time series, point-in-time and time-sliced reference data,
// intraday bars, and a raw passthrough. Each call drains stale events,
// submits one request, accumulates records from response events until the
// terminal signal, and pivots them into a frame.Frame.
//
// Calls are synchronous and single-flight: one request per call, one call at
// a time per connection. There is no retry; any failure aborts the call with
// no partial result.
package conn

import (
	"context"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/refdata/blp"
)

// defaultPollInterval is the bounded wait of one NextEvent poll for the
// single-request call styles. The time-sliced style uses the caller's
// timeout instead.
const defaultPollInterval = 500 * time.Millisecond

// Config configures a Connection.
type Config struct {
	// Dial creates the vendor session. Required. The session's host, port and
	// other options are the dialer's business; this layer never sees them.
	Dial blp.Dialer
	// PollInterval overrides the bounded wait of one event poll. Default:
	// 500ms.
	PollInterval time.Duration
}

// Connection is a synchronous client over one vendor session. It is not safe
// for concurrent use; callers issue one call at a time.
type Connection struct {
	dial    blp.Dialer
	session blp.Session
	poll    time.Duration
}

// New dials a session, starts it and opens the reference-data service.
func New(ctx context.Context, cfg Config) (*Connection, error) {
	if cfg.Dial == nil {
		return nil, errors.Reason("Config.Dial is required")
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	c := &Connection{dial: cfg.Dial, poll: poll}
	if err := c.Restart(ctx); err != nil {
		return nil, errors.Annotate(err, "failed to establish session")
	}
	return c, nil
}

// Session exposes the underlying session, primarily for constructing raw
// requests against vendor services this layer does not wrap.
func (c *Connection) Session() blp.Session { return c.session }

// Restart stops the current session, if any, and establishes a fresh one.
// The time-sliced call style restarts per call: correlation keys must be
// unique within a session's lifetime, and no per-call key allocator is
// maintained. This restart contract is deliberate; see ReferenceHistory.
func (c *Connection) Restart(ctx context.Context) error {
	if c.session != nil {
		if err := c.session.Stop(); err != nil {
			return errors.Annotate(err, "failed to stop session")
		}
	}
	session, err := c.dial(ctx)
	if err != nil {
		return errors.Annotate(err, "failed to dial session")
	}
	if err := session.Start(ctx); err != nil {
		return errors.Annotate(err, "failed to start session")
	}
	if err := session.OpenService(ctx, blp.RefDataService); err != nil {
		return errors.Annotate(err, "failed to open service %s", blp.RefDataService)
	}
	c.session = session
	return nil
}

// Close stops the session.
func (c *Connection) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Stop()
}

// drain flushes pending events left over from a previously aborted call.
func (c *Connection) drain(ctx context.Context) {
	n := 0
	for {
		if _, ok := c.session.TryNextEvent(); !ok {
			break
		}
		n++
	}
	if n > 0 {
		logging.Debugf(ctx, "drained %d stale events", n)
	}
}

// send logs and submits a request.
func (c *Connection) send(ctx context.Context, req *blp.Request, correlationKey string) error {
	logging.Debugf(ctx, "sending request:\n%s", req)
	if err := c.session.Send(req, correlationKey); err != nil {
		return errors.Annotate(err, "failed to send %s", req.Operation())
	}
	return nil
}

// collect polls for events at the fixed interval and hands each response
// message to process, until the terminal Response event or ctx cancellation.
// Timeout events merely continue the poll.
func (c *Connection) collect(ctx context.Context, process func(blp.Message) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Annotate(err, "call canceled")
		}
		ev, err := c.session.NextEvent(c.poll)
		if err != nil {
			return errors.Annotate(err, "failed to poll for the next event")
		}
		if ev.Type == blp.PartialResponseEvent || ev.Type == blp.ResponseEvent {
			for _, msg := range ev.Messages {
				logging.Debugf(ctx, "message received: %s", msg.Name)
				if err := process(msg); err != nil {
					return err
				}
			}
		}
		if ev.Type == blp.ResponseEvent {
			return nil
		}
	}
}

// asString extracts a string scalar from an element value.
func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.Reason("expected a string value, got %[1]v (%[1]T)", v)
	}
	return s, nil
}
