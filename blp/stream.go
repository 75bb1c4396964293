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
	"encoding/json"
	"io"

	"github.com/stockparfait/errors"
)

// WriteEvents persists an event sequence as JSON, one stream per file. Raw
// message sequences captured with the passthrough call can be saved this way
// and replayed later through a ScriptedSession.
func WriteEvents(w io.Writer, events []Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return errors.Annotate(err, "failed to encode events")
	}
	return nil
}

// ReadEvents reads an event sequence persisted by WriteEvents.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, errors.Annotate(err, "failed to decode events")
	}
	return events, nil
}
