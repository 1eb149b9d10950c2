// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package value implements the typed Value sum (string, bool, int,
// list-of-value, scope-map) that flows through the build graph, and the
// Metadata container built from lists of Values.
package value

import "fmt"

// Kind discriminates the Value variants.
type Kind int

const (
	None Kind = iota
	String
	Bool
	Int
	List
	Scope
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case String:
		return "string"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case List:
		return "list"
	case Scope:
		return "scope"
	default:
		return "unknown"
	}
}

// Origin is a diagnostic source-span attached to a Value for error
// messages. The declarative front end that produces real spans is out of
// scope for this repository; Origin is the named collaborator type it
// would populate.
type Origin struct {
	File string
	Line int
	Col  int
}

func (o Origin) String() string {
	if o.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", o.File, o.Line, o.Col)
}

// Value is a tagged union over {String, Bool, Int, List[Value], Scope}.
// The zero Value has Kind None and should not be used except as a
// placeholder.
type Value struct {
	origin Origin
	kind   Kind

	str  string
	b    bool
	i    int64
	list []Value
	sc   map[string]Value
}

// NewString builds a String Value.
func NewString(origin Origin, s string) Value {
	return Value{origin: origin, kind: String, str: s}
}

// NewBool builds a Bool Value.
func NewBool(origin Origin, b bool) Value {
	return Value{origin: origin, kind: Bool, b: b}
}

// NewInt builds an Int Value.
func NewInt(origin Origin, i int64) Value {
	return Value{origin: origin, kind: Int, i: i}
}

// NewList builds a List Value. The given slice is copied.
func NewList(origin Origin, items []Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{origin: origin, kind: List, list: list}
}

// NewScope builds a Scope Value. The given map is copied.
func NewScope(origin Origin, contents map[string]Value) Value {
	sc := make(map[string]Value, len(contents))
	for k, v := range contents {
		sc[k] = v
	}
	return Value{origin: origin, kind: Scope, sc: sc}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Origin returns the diagnostic source span, if any.
func (v Value) Origin() Origin { return v.origin }

// TypeError reports that a Value did not have the expected Kind.
type TypeError struct {
	Origin   Origin
	Expected Kind
	Actual   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Origin, e.Expected, e.Actual)
}

// VerifyTypeIs fails with a *TypeError if v's Kind does not match want.
func (v Value) VerifyTypeIs(want Kind) error {
	if v.kind != want {
		return &TypeError{Origin: v.origin, Expected: want, Actual: v.kind}
	}
	return nil
}

// StringValue returns v's string contents, failing if v is not a String.
func (v Value) StringValue() (string, error) {
	if err := v.VerifyTypeIs(String); err != nil {
		return "", err
	}
	return v.str, nil
}

// BoolValue returns v's bool contents, failing if v is not a Bool.
func (v Value) BoolValue() (bool, error) {
	if err := v.VerifyTypeIs(Bool); err != nil {
		return false, err
	}
	return v.b, nil
}

// IntValue returns v's int contents, failing if v is not an Int.
func (v Value) IntValue() (int64, error) {
	if err := v.VerifyTypeIs(Int); err != nil {
		return 0, err
	}
	return v.i, nil
}

// ListValue returns v's list contents, failing if v is not a List.
func (v Value) ListValue() ([]Value, error) {
	if err := v.VerifyTypeIs(List); err != nil {
		return nil, err
	}
	return v.list, nil
}

// ScopeValue returns v's scope contents, failing if v is not a Scope.
func (v Value) ScopeValue() (map[string]Value, error) {
	if err := v.VerifyTypeIs(Scope); err != nil {
		return nil, err
	}
	return v.sc, nil
}

// Equal reports deep, order-sensitive equality. Origins are not compared:
// two Values parsed from different source spans but with the same
// contents are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.str == other.str
	case Bool:
		return v.b == other.b
	case Int:
		return v.i == other.i
	case List:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case Scope:
		if len(v.sc) != len(other.sc) {
			return false
		}
		for k, a := range v.sc {
			b, ok := other.sc[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	case None:
		return true
	default:
		return false
	}
}

// Concat returns a new List Value whose contents are v's list elements
// followed by other's. Both v and other must be Lists.
func (v Value) Concat(other Value) (Value, error) {
	if err := v.VerifyTypeIs(List); err != nil {
		return Value{}, err
	}
	if err := other.VerifyTypeIs(List); err != nil {
		return Value{}, err
	}
	combined := make([]Value, 0, len(v.list)+len(other.list))
	combined = append(combined, v.list...)
	combined = append(combined, other.list...)
	return NewList(v.origin, combined), nil
}

// String renders v for diagnostics; it is not the Ninja-escaped form.
func (v Value) String() string {
	switch v.kind {
	case String:
		return v.str
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return fmt.Sprintf("%d", v.i)
	case List:
		out := "["
		for i, item := range v.list {
			if i > 0 {
				out += ", "
			}
			out += item.String()
		}
		return out + "]"
	case Scope:
		return "{scope}"
	default:
		return "<none>"
	}
}
