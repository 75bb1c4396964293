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

import "fmt"

// Operation names of the reference-data service requests this repository
// constructs.
const (
	HistoricalDataRequest = "HistoricalDataRequest"
	ReferenceDataRequest  = "ReferenceDataRequest"
	IntradayBarRequest    = "IntradayBarRequest"
)

// Request is a vendor request under construction: an operation name plus an
// element tree of parameters.
type Request struct {
	operation string
	body      *Element
}

// NewRequest creates an empty request for the given operation.
func NewRequest(operation string) *Request {
	return &Request{operation: operation, body: Complex(operation)}
}

// Operation name of the request.
func (r *Request) Operation() string { return r.operation }

// Body is the element tree of the request parameters.
func (r *Request) Body() *Element { return r.body }

// Set sets a top-level scalar parameter, replacing any previous value.
func (r *Request) Set(name string, value any) *Request {
	r.body.setChild(Scalar(name, value))
	return r
}

// Append appends a scalar value to a top-level array parameter, such as
// "securities" or "fields".
func (r *Request) Append(name string, value any) *Request {
	r.body.child(name).appendEntry(Scalar("", value))
	return r
}

// AppendOverride appends an (overrideField, value) pair to the "overrides"
// array parameter.
func (r *Request) AppendOverride(field, value string) *Request {
	r.body.child("overrides").appendEntry(Complex("",
		Scalar("fieldId", field), Scalar("value", value)))
	return r
}

// String renders the request for logging.
func (r *Request) String() string {
	return fmt.Sprintf("%s:\n%s", r.operation, r.body)
}
