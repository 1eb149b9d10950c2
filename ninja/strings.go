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

package ninja

import (
	"bytes"
	"fmt"
	"strings"
)

// Escaping policy varies by where a string lands in a build edge: bare
// default strings only need newlines and literal '$' protected, inputs
// additionally need spaces protected (since space separates list elements),
// and outputs additionally need colons protected (since colon ends the
// outputs list). '$' is replaced first so the replacements it introduces
// ("$\n", "$ ", "$:") are never themselves re-escaped.
var (
	DefaultEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n")
	InputEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n",
		" ", "$ ")
	OutputEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n",
		" ", "$ ",
		":", "$:")
)

// EscapeInputs applies InputEscaper to every element of ss, returning a new
// slice.
func EscapeInputs(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = InputEscaper.Replace(s)
	}
	return out
}

// EscapeOutputs applies OutputEscaper to every element of ss, returning a
// new slice.
func EscapeOutputs(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = OutputEscaper.Replace(s)
	}
	return out
}

// ValidateName reports whether name contains only characters Ninja allows
// in a rule, pool, or variable name.
func ValidateName(name string) error {
	for i, r := range name {
		if !isNinjaNameRune(r) {
			return fmt.Errorf("%q contains an invalid Ninja name character %q at byte offset %d", name, r, i)
		}
	}
	return nil
}

// ToName replaces every character not valid in a Ninja name with '_',
// producing a legal name derived from an arbitrary input string (e.g. a
// crate or target label turned into a variable-name prefix).
func ToName(name string) string {
	var buf bytes.Buffer
	buf.Grow(len(name))
	for _, r := range name {
		if isNinjaNameRune(r) {
			buf.WriteRune(r)
		} else {
			buf.WriteRune('_')
		}
	}
	return buf.String()
}

func isNinjaNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-' || r == '.'
}
