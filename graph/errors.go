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

package graph

import (
	"fmt"

	"github.com/buildgraph/buildgraph/label"
)

// TargetError describes a problem related to a particular target.
type TargetError struct {
	Target label.Label
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

// UnresolvedLabelError reports that a dependency label does not name any
// known target.
type UnresolvedLabelError struct {
	From label.Label
	Dep  label.Label
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("%s: dependency %s is not in the target graph", e.From, e.Dep)
}

// CycleError reports a dependency cycle discovered during resolution. Path
// is the cycle in traversal order, starting and ending at the same label.
type CycleError struct {
	Path []label.Label
}

func (e *CycleError) Error() string {
	s := "dependency cycle:"
	for _, l := range e.Path {
		s += " " + l.String() + " ->"
	}
	return s[:len(s)-3]
}

// VisibilityError reports that From depends on Dep but is not in Dep's
// visibility list.
type VisibilityError struct {
	From label.Label
	Dep  label.Label
}

func (e *VisibilityError) Error() string {
	return fmt.Sprintf("%s: dependency %s is not visible from here", e.From, e.Dep)
}

// MetadataWalkBarrierError reports that a walk_keys barrier named a label
// that is not actually a dependency of the target being walked. The message
// is fixed byte-for-byte to match GN's own diagnostic.
type MetadataWalkBarrierError struct {
	Barrier label.Label
	From    label.Label
}

func (e *MetadataWalkBarrierError) Error() string {
	return fmt.Sprintf(
		"I was expecting %s to be a dependency of %s. Make sure it's included in the deps or data_deps.",
		e.Barrier, e.From)
}

// ProcMacroBoundaryError reports an attempt to cross a proc-macro
// compilation boundary in a way the classification rules forbid (e.g. a
// proc-macro's own rlib dependency leaking into a downstream --extern set
// the way a normal rlib would).
type ProcMacroBoundaryError struct {
	ProcMacro label.Label
	Dep       label.Label
}

func (e *ProcMacroBoundaryError) Error() string {
	return fmt.Sprintf("%s: dependency %s cannot cross the proc-macro compilation boundary", e.ProcMacro, e.Dep)
}
