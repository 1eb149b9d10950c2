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
	"github.com/buildgraph/buildgraph/graph"
)

// DependencyOutputPhony returns the phony target name ninja uses to
// represent "t and everything it needs have finished building", used as an
// order-only dependency by anything depending on t rather than the real
// output file (so groups, actions with no single obvious output file, and
// targets depended on only for ordering all get a stable handle).
func DependencyOutputPhony(t *graph.Target) string {
	return t.Label.Dir.TargetDir() + "/" + t.Label.Name + ".stamp"
}

// WriteTarget emits t's Ninja fragment: for a Rust target, the rust binary
// writer's output; for a group, just the phony stamp tying together its
// deps; for everything else, a phony stamp gated on its recursive hard
// deps (actions, copy rules, and other non-Rust output kinds are driven by
// the out-of-scope front end's own rule, and this core's job ends at
// ordering them).
func WriteTarget(t *graph.Target, w *Writer) error {
	orderOnly, err := writeOrderOnlyDeps(t, w)
	if err != nil {
		return err
	}

	if t.IsRust() {
		return writeRustTarget(t, w, orderOnly)
	}

	var deps []string
	for _, d := range t.RecursiveHardDeps {
		deps = append(deps, DependencyOutputPhony(d))
	}

	stamp := DependencyOutputPhony(t)
	return w.Build("", "phony", []string{stamp}, nil, nil, deps, orderOnly, nil)
}

// writeOrderOnlyDeps emits the phony stamps t needs as order-only
// dependencies of its own build edge: one aggregating its data_deps (if any)
// and one per group crossed while walking to RecursiveHardDeps (a group's
// members land directly in the hard-dep list, but the group may have other
// members outside that list that still have to finish first).
func writeOrderOnlyDeps(t *graph.Target, w *Writer) ([]string, error) {
	orderOnly, err := writeDataDepsPhony(t, w)
	if err != nil {
		return nil, err
	}
	for _, g := range t.GroupDeps {
		orderOnly = append(orderOnly, DependencyOutputPhony(g))
	}
	return orderOnly, nil
}

// WriteInputDepsPhony emits a single phony target collecting every file in
// deps under one name, used as a single order-only handle rather than
// repeating the full list at every build edge that needs ordering against
// it (e.g. a target's data_deps, which must exist before the target runs
// but are not themselves compiler inputs).
func WriteInputDepsPhony(name string, deps []string, w *Writer) error {
	return w.Build("", "phony", []string{name}, nil, nil, deps, nil, nil)
}

// dataDepsPhonyName returns the stable handle aggregating t's data_deps
// phony stamps.
func dataDepsPhonyName(t *graph.Target) string {
	return t.Label.Dir.TargetDir() + "/" + t.Label.Name + ".datadeps.stamp"
}

// writeDataDepsPhony emits t's aggregated data_deps phony, if t has any, and
// returns its name as a single-element order-only dependency list ready to
// pass to Build. It returns a nil slice, with nothing emitted, if t has no
// data_deps.
func writeDataDepsPhony(t *graph.Target, w *Writer) ([]string, error) {
	dataDeps := t.DataDeps()
	if len(dataDeps) == 0 {
		return nil, nil
	}

	var stamps []string
	for _, d := range dataDeps {
		stamps = append(stamps, DependencyOutputPhony(d))
	}

	name := dataDepsPhonyName(t)
	if err := WriteInputDepsPhony(name, stamps, w); err != nil {
		return nil, err
	}
	return []string{name}, nil
}
