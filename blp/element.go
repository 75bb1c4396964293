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

// Package blp models the request/response surface of the market-data vendor's
// session API: nested elements, request construction, response events, and
// the blocking Session contract. The wire protocol itself belongs to the
// vendor's closed library; this package only names the shapes this repository
// consumes, plus a ScriptedSession for tests and offline replay.
package blp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockparfait/errors"
)

// elementKind distinguishes the three element shapes.
type elementKind int

const (
	scalarKind elementKind = iota
	arrayKind
	complexKind
)

// Element is a node of a semi-structured vendor message: a scalar value, an
// array of entries, or a record of named children.
type Element struct {
	name     string
	kind     elementKind
	value    any        // scalarKind
	entries  []*Element // arrayKind
	children []*Element // complexKind, in delivery order
}

// Scalar creates a scalar element.
func Scalar(name string, value any) *Element {
	return &Element{name: name, kind: scalarKind, value: value}
}

// Complex creates a record element with named children.
func Complex(name string, children ...*Element) *Element {
	return &Element{name: name, kind: complexKind, children: children}
}

// Array creates an array element with the given entries.
func Array(name string, entries ...*Element) *Element {
	return &Element{name: name, kind: arrayKind, entries: entries}
}

// Name of the element.
func (e *Element) Name() string { return e.name }

// IsArray checks if the element holds an array of entries.
func (e *Element) IsArray() bool { return e.kind == arrayKind }

// IsComplex checks if the element holds named children.
func (e *Element) IsComplex() bool { return e.kind == complexKind }

// Value returns the scalar value, or nil for non-scalar elements.
func (e *Element) Value() any {
	if e.kind != scalarKind {
		return nil
	}
	return e.value
}

// NumElements is the number of named children of a record element.
func (e *Element) NumElements() int { return len(e.children) }

// Elements lists the named children of a record element in delivery order.
func (e *Element) Elements() []*Element { return e.children }

// HasElement checks if a record element has a child with the given name.
func (e *Element) HasElement(name string) bool {
	for _, c := range e.children {
		if c.name == name {
			return true
		}
	}
	return false
}

// Element returns the named child of a record element.
func (e *Element) Element(name string) (*Element, error) {
	for _, c := range e.children {
		if c.name == name {
			return c, nil
		}
	}
	return nil, errors.Reason("element '%s' has no child '%s'", e.name, name)
}

// ElementAt returns the i-th named child of a record element.
func (e *Element) ElementAt(i int) (*Element, error) {
	if i < 0 || i >= len(e.children) {
		return nil, errors.Reason("element '%s' has no child at index %d of %d",
			e.name, i, len(e.children))
	}
	return e.children[i], nil
}

// NumValues is the number of entries of an array element.
func (e *Element) NumValues() int { return len(e.entries) }

// ValueAt returns the i-th entry of an array element.
func (e *Element) ValueAt(i int) (*Element, error) {
	if i < 0 || i >= len(e.entries) {
		return nil, errors.Reason("element '%s' has no entry at index %d of %d",
			e.name, i, len(e.entries))
	}
	return e.entries[i], nil
}

// setChild replaces the named child, or appends it when absent.
func (e *Element) setChild(c *Element) {
	e.kind = complexKind
	for i, old := range e.children {
		if old.name == c.name {
			e.children[i] = c
			return
		}
	}
	e.children = append(e.children, c)
}

// child returns the named child, creating an empty record child when absent.
func (e *Element) child(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	c := Complex(name)
	e.children = append(e.children, c)
	return c
}

// appendEntry appends an entry to an array element.
func (e *Element) appendEntry(entry *Element) {
	e.kind = arrayKind
	e.entries = append(e.entries, entry)
}

// String renders the element tree for logging.
func (e *Element) String() string {
	var b strings.Builder
	e.write(&b, 0)
	return b.String()
}

func (e *Element) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch e.kind {
	case scalarKind:
		fmt.Fprintf(b, "%s%s = %v\n", indent, e.name, e.value)
	case arrayKind:
		fmt.Fprintf(b, "%s%s[] = {\n", indent, e.name)
		for _, entry := range e.entries {
			entry.write(b, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case complexKind:
		fmt.Fprintf(b, "%s%s = {\n", indent, e.name)
		for _, c := range e.children {
			c.write(b, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	}
}

// elementJSON is the serialized form of an Element, used to persist raw event
// streams for offline replay.
type elementJSON struct {
	Name     string     `json:"name,omitempty"`
	Value    any        `json:"value,omitempty"`
	Entries  []*Element `json:"entries,omitempty"`
	Children []*Element `json:"children,omitempty"`
	Kind     string     `json:"kind"`
}

var _ json.Marshaler = &Element{}
var _ json.Unmarshaler = &Element{}

// MarshalJSON implements json.Marshaler.
func (e *Element) MarshalJSON() ([]byte, error) {
	j := elementJSON{Name: e.name}
	switch e.kind {
	case scalarKind:
		j.Kind = "scalar"
		j.Value = e.value
	case arrayKind:
		j.Kind = "array"
		j.Entries = e.entries
	case complexKind:
		j.Kind = "complex"
		j.Children = e.children
	}
	return json.Marshal(&j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Element) UnmarshalJSON(data []byte) error {
	var j elementJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return errors.Annotate(err, "failed to parse element JSON")
	}
	switch j.Kind {
	case "scalar":
		*e = Element{name: j.Name, kind: scalarKind, value: j.Value}
	case "array":
		*e = Element{name: j.Name, kind: arrayKind, entries: j.Entries}
	case "complex":
		*e = Element{name: j.Name, kind: complexKind, children: j.Children}
	default:
		return errors.Reason("unknown element kind '%s'", j.Kind)
	}
	return nil
}
