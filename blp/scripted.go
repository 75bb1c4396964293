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
	"time"
)

// SentRequest records one Send call on a ScriptedSession.
type SentRequest struct {
	Request        *Request
	CorrelationKey string
}

// ScriptedSession is a Session fed by a pre-recorded event sequence. It backs
// the test suite and the offline replay of event streams captured with the
// raw passthrough call.
//
// Two queues model a real session: stale events are already pending and
// visible to the non-blocking TryNextEvent, while scripted events stand in
// for responses and are only delivered by the blocking NextEvent. When both
// queues are exhausted, NextEvent delivers TimeoutEvent.
type ScriptedSession struct {
	stale    []Event
	script   []Event
	sent     []SentRequest
	started  bool
	stopped  bool
	services []string
}

var _ Session = &ScriptedSession{}

// NewScriptedSession creates a session that will deliver the given events in
// response to blocking polls.
func NewScriptedSession(events ...Event) *ScriptedSession {
	return &ScriptedSession{script: events}
}

// AddEvents appends events to the script.
func (s *ScriptedSession) AddEvents(events ...Event) {
	s.script = append(s.script, events...)
}

// AddStale queues events as already pending, as if left over from an earlier
// aborted call.
func (s *ScriptedSession) AddStale(events ...Event) {
	s.stale = append(s.stale, events...)
}

// Sent lists the requests submitted so far, in order.
func (s *ScriptedSession) Sent() []SentRequest { return s.sent }

// Started reports whether Start was called.
func (s *ScriptedSession) Started() bool { return s.started }

// Stopped reports whether Stop was called.
func (s *ScriptedSession) Stopped() bool { return s.stopped }

// Services lists the service URIs opened so far.
func (s *ScriptedSession) Services() []string { return s.services }

// Start implements Session.
func (s *ScriptedSession) Start(ctx context.Context) error {
	s.started = true
	return nil
}

// Stop implements Session.
func (s *ScriptedSession) Stop() error {
	s.stopped = true
	return nil
}

// OpenService implements Session.
func (s *ScriptedSession) OpenService(ctx context.Context, uri string) error {
	s.services = append(s.services, uri)
	return nil
}

// Send implements Session.
func (s *ScriptedSession) Send(req *Request, correlationKey string) error {
	s.sent = append(s.sent, SentRequest{Request: req, CorrelationKey: correlationKey})
	return nil
}

// NextEvent implements Session. The timeout is not actually waited out; an
// exhausted script delivers TimeoutEvent immediately.
func (s *ScriptedSession) NextEvent(timeout time.Duration) (Event, error) {
	if ev, ok := s.TryNextEvent(); ok {
		return ev, nil
	}
	if len(s.script) == 0 {
		return Event{Type: TimeoutEvent}, nil
	}
	ev := s.script[0]
	s.script = s.script[1:]
	return ev, nil
}

// TryNextEvent implements Session. Only stale events are pending without a
// blocking poll.
func (s *ScriptedSession) TryNextEvent() (Event, bool) {
	if len(s.stale) == 0 {
		return Event{}, false
	}
	ev := s.stale[0]
	s.stale = s.stale[1:]
	return ev, true
}
