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
	"github.com/stockparfait/logging"
	"github.com/stockparfait/refdata/blp"
)

// Raw submits an already-constructed request and collects the raw response
// messages unshaped, for diagnostics. Unlike the shaped calls, every
// message of every event is collected, including administrative ones, until
// the terminal Response event.
func (c *Connection) Raw(ctx context.Context, req *blp.Request) ([]blp.Message, error) {
	if req == nil {
		return nil, errors.Reason("a request is required")
	}
	c.drain(ctx)
	if err := c.send(ctx, req, ""); err != nil {
		return nil, err
	}

	var msgs []blp.Message
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Annotate(err, "call canceled")
		}
		ev, err := c.session.NextEvent(c.poll)
		if err != nil {
			return nil, errors.Annotate(err, "failed to poll for the next event")
		}
		for _, msg := range ev.Messages {
			logging.Debugf(ctx, "message received: %s", msg.Name)
			msgs = append(msgs, msg)
		}
		if ev.Type == blp.ResponseEvent {
			return msgs, nil
		}
	}
}
