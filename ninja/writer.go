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

// Package ninja implements the low-level Ninja build-manifest textual
// emitter: line wrapping, variable assignment, and build-edge syntax,
// plus the higher-level per-target writers that produce a target's edges.
package ninja

import (
	"io"
	"strings"
)

const (
	indentWidth = 4
	lineWidth   = 80
)

// Writer emits Ninja syntax to an underlying string sink, handling comment
// wrapping, 80-column line continuation on build edges, and suppression of
// consecutive blank lines.
type Writer struct {
	out      io.StringWriter
	sawBlank bool
}

// NewWriter wraps out.
func NewWriter(out io.StringWriter) *Writer {
	return &Writer{out: out}
}

func (w *Writer) emit(s string) error {
	_, err := w.out.WriteString(s)
	return err
}

// Comment writes comment as one or more "# "-prefixed lines, greedily
// word-wrapping any line longer than 80 columns and preserving comment's own
// newlines as separate lines.
func (w *Writer) Comment(comment string) error {
	w.sawBlank = false
	const prefix = "# "
	maxWidth := lineWidth - len(prefix)

	for _, rawLine := range strings.Split(comment, "\n") {
		for _, line := range wordWrap(rawLine, maxWidth) {
			if err := w.emit(prefix + line + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// wordWrap splits s into lines of at most width columns, breaking only at
// spaces. A single word longer than width is kept whole on its own line
// rather than split mid-word.
func wordWrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	for _, word := range words {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	return append(lines, cur.String())
}

// Pool writes a "pool NAME" statement.
func (w *Writer) Pool(name string) error {
	w.sawBlank = false
	return w.statement("pool", name)
}

// Rule writes a "rule NAME" statement.
func (w *Writer) Rule(name string) error {
	w.sawBlank = false
	return w.statement("rule", name)
}

// Build writes a build edge: outputs, implicit outputs, the rule, explicit
// deps, implicit deps, order-only deps, and validations, wrapping at 80
// columns. comment, if non-empty, is written as a leading wrapped comment.
func (w *Writer) Build(comment, rule string, outputs, implicitOuts,
	explicitDeps, implicitDeps, orderOnlyDeps, validations []string) error {

	w.sawBlank = false

	e := newEdgeWriter(w)

	if comment != "" {
		if err := w.Comment(comment); err != nil {
			return err
		}
	}

	e.bare("build")
	e.tokens(outputs)
	e.clause("|", implicitOuts)
	e.bare(":")
	e.token(rule)
	e.tokens(explicitDeps)
	e.clause("|", implicitDeps)
	e.clause("||", orderOnlyDeps)
	e.clause("|@", validations)

	return e.flush()
}

// Assign writes "name = value" at column zero.
func (w *Writer) Assign(name, value string) error {
	w.sawBlank = false
	return w.emit(name + " = " + value + "\n")
}

// ScopedAssign writes a two-space-indented "name = value", the form used
// inside a build edge's scope to set per-edge variables. An empty value is
// written as a bare "name =" with no trailing space.
func (w *Writer) ScopedAssign(name, value string) error {
	w.sawBlank = false
	line := "  " + name + " ="
	if value != "" {
		line += " " + value
	}
	return w.emit(line + "\n")
}

// Default writes a "default ..." statement naming the targets built when
// ninja is invoked with no explicit target arguments.
func (w *Writer) Default(targets ...string) error {
	w.sawBlank = false
	e := newEdgeWriter(w)
	e.bare("default")
	e.tokens(targets)
	return e.flush()
}

// Subninja writes a "subninja FILE" statement.
func (w *Writer) Subninja(file string) error {
	w.sawBlank = false
	return w.statement("subninja", file)
}

// BlankLine writes a blank line, collapsing runs of consecutive calls into
// a single line.
func (w *Writer) BlankLine() error {
	if w.sawBlank {
		return nil
	}
	w.sawBlank = true
	return w.emit("\n")
}

func (w *Writer) statement(keyword, name string) error {
	return w.emit(keyword + " " + name + "\n")
}

// edgeWriter accumulates one wrapped, space-joined statement line,
// inserting a " $\n"-continuation plus an 8-column indent once the line has
// already run past the wrap width, rather than pre-checking whether the
// next token would push it over: a token that itself overflows the width
// still lands on the current line, and only the token after that moves
// down. This matches build edges with one long trailing path component,
// which read better finishing their line than jumping early to dodge it.
type edgeWriter struct {
	w          *Writer
	maxLineLen int
	written    int
	err        error
}

func newEdgeWriter(w *Writer) *edgeWriter {
	return &edgeWriter{w: w, maxLineLen: lineWidth - len(" $")}
}

// bare appends s with no leading space, for the first token on the line or
// the colon that ends an outputs list.
func (e *edgeWriter) bare(s string) {
	e.append(s, false)
}

// token appends s preceded by a space (or a line continuation in place of
// the space, if the line has already run past the wrap width).
func (e *edgeWriter) token(s string) {
	e.append(s, true)
}

// tokens appends every element of ss as a token.
func (e *edgeWriter) tokens(ss []string) {
	for _, s := range ss {
		e.token(s)
	}
}

// clause appends sep followed by every element of items, as tokens, but
// only if items is non-empty — used for the optional "| IMPLICIT",
// "|| ORDER_ONLY", and "|@ VALIDATIONS" sections of a build edge.
func (e *edgeWriter) clause(sep string, items []string) {
	if len(items) == 0 {
		return
	}
	e.token(sep)
	e.tokens(items)
}

func (e *edgeWriter) append(s string, leadingSpace bool) {
	if e.err != nil {
		return
	}

	if e.written > e.maxLineLen {
		if err := e.w.emit(" $\n" + strings.Repeat(" ", indentWidth*2)); err != nil {
			e.err = err
			return
		}
		e.written = indentWidth * 2
		s = strings.TrimLeft(s, " ")
	} else if leadingSpace {
		if err := e.w.emit(" "); err != nil {
			e.err = err
			return
		}
		e.written++
	}

	if err := e.w.emit(s); err != nil {
		e.err = err
		return
	}
	e.written += len(s)
}

func (e *edgeWriter) flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.emit("\n")
}
