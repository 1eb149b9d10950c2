// Copyright 2019 The Chromium Authors. All rights reserved.
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
	"fmt"
	"strings"

	"github.com/buildgraph/buildgraph/graph"
)

// crateTypeInfo describes how a crate type maps onto a Ninja rule name and
// an output filename shape.
type crateTypeInfo struct {
	rule      string
	ext       string
	libPrefix bool
}

var crateTypeTable = map[graph.CrateType]crateTypeInfo{
	graph.CrateBin:       {rule: "rust_bin", ext: "", libPrefix: false},
	graph.CrateRlib:      {rule: "rust_rlib", ext: ".rlib", libPrefix: true},
	graph.CrateDylib:     {rule: "rust_dylib", ext: ".so", libPrefix: true},
	graph.CrateCdylib:    {rule: "rust_cdylib", ext: ".so", libPrefix: true},
	graph.CrateProcMacro: {rule: "rust_macro", ext: ".so", libPrefix: true},
	graph.CrateStaticlib: {rule: "rust_staticlib", ext: ".a", libPrefix: true},
}

// RustTargetOutput returns the output path rustc/ninja will produce for t,
// relative to the build output root.
func RustTargetOutput(t *graph.Target) string {
	info, ok := crateTypeTable[t.CrateType]
	if !ok {
		return ""
	}
	if t.CrateType == graph.CrateBin {
		return "./" + t.CrateName
	}
	return t.Label.Dir.TargetDir() + "/" + targetOutputName(t) + info.ext
}

func targetOutputName(t *graph.Target) string {
	info := crateTypeTable[t.CrateType]
	if info.libPrefix {
		return "lib" + t.Label.Name
	}
	return t.Label.Name
}

// WriteRustTarget emits the Ninja fragment for a single Rust target, with no
// order-only dependencies. It is the entry point for callers (and tests)
// that already know t has no data_deps to order against; WriteTarget itself
// calls writeRustTarget directly so it can supply the aggregated data_deps
// phony computed once for the whole target.
func WriteRustTarget(t *graph.Target, w *Writer) error {
	return writeRustTarget(t, w, nil)
}

// writeRustTarget emits the per-target variable block followed by the build
// edge. It matches the GN Rust binary target writer's output shape exactly:
// crate_name, crate_type, output_extension, output_dir, rustflags, rustenv,
// root_out_dir, target_out_dir, target_output_name, a blank line, then the
// build edge with externs/rustdeps/ldflags/sources, plus orderOnlyDeps if
// the caller computed any.
func writeRustTarget(t *graph.Target, w *Writer, orderOnlyDeps []string) error {
	info, ok := crateTypeTable[t.CrateType]
	if !ok {
		return fmt.Errorf("%s: not a rust target", t.Label)
	}

	if err := w.Assign("crate_name", t.CrateName); err != nil {
		return err
	}
	if err := w.Assign("crate_type", t.CrateType.String()); err != nil {
		return err
	}
	if err := w.Assign("output_extension", info.ext); err != nil {
		return err
	}
	if err := w.Assign("output_dir", ""); err != nil {
		return err
	}
	// rustflags and rustenv are flag lists; an empty list is written as a
	// bare "name =" with no trailing space.
	for _, name := range []string{"rustflags", "rustenv"} {
		if err := w.emit(name + " =\n"); err != nil {
			return err
		}
	}
	if err := w.Assign("root_out_dir", "."); err != nil {
		return err
	}
	if err := w.Assign("target_out_dir", t.Label.Dir.TargetDir()); err != nil {
		return err
	}
	if err := w.Assign("target_output_name", targetOutputName(t)); err != nil {
		return err
	}
	if err := w.BlankLine(); err != nil {
		return err
	}

	output := RustTargetOutput(t)
	sources := make([]string, len(t.Sources))
	for i, s := range t.Sources {
		sources[i] = s.OutputRelative()
	}

	implicit := append([]string{}, sources...)
	seenDirect := make(map[string]bool)
	for _, d := range t.LinkDeps() {
		if !d.IsRust() {
			continue
		}
		out := RustTargetOutput(d)
		if out == "" || seenDirect[out] {
			continue
		}
		seenDirect[out] = true
		implicit = append(implicit, out)
	}

	crateRoot := t.CrateRoot.OutputRelative()

	if err := w.Build("", info.rule, []string{output}, nil, []string{crateRoot}, implicit, orderOnlyDeps, nil); err != nil {
		return err
	}

	if err := w.ScopedAssign("externs", externsString(t)); err != nil {
		return err
	}
	if err := w.ScopedAssign("rustdeps", rustdepsString(t)); err != nil {
		return err
	}
	if err := w.ScopedAssign("ldflags", strings.Join(t.Ldflags, " ")); err != nil {
		return err
	}
	if err := w.ScopedAssign("sources", strings.Join(sources, " ")); err != nil {
		return err
	}
	return nil
}

// externsString builds the "--extern name=path" switches for t's directly
// and transitively accessible Rust dependencies, in closure order, using
// AliasedDeps to rename a dependency's public crate name where declared.
func externsString(t *graph.Target) string {
	var parts []string
	for _, d := range t.Accessible {
		name := d.CrateName
		for alias, lbl := range t.AliasedDeps {
			if lbl.Equal(d.Label) {
				name = alias
			}
		}
		parts = append(parts, fmt.Sprintf("--extern %s=%s", name, RustTargetOutput(d)))
	}
	return strings.Join(parts, " ")
}

// rustdepsString builds the "-Ldependency=DIR" switches covering every
// directory that holds an accessible or search-only dependency's output,
// deduplicated and in first-encounter order.
func rustdepsString(t *graph.Target) string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dep *graph.Target) {
		dir := dep.Label.Dir.TargetDir()
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, d := range t.Accessible {
		add(d)
	}
	for _, d := range t.SearchOnly {
		add(d)
	}
	var parts []string
	for _, dir := range dirs {
		parts = append(parts, "-Ldependency="+dir)
	}
	return strings.Join(parts, " ")
}

// NativeLinkFlags builds one "-Lnative=DIR" switch per distinct directory of
// t's non-Rust (native) link dependencies, followed by one
// "-Clink-arg=-l<name>" switch per inherited lib. The native libraries' own
// output files are not passed as link args.
func NativeLinkFlags(t *graph.Target) string {
	seen := make(map[string]bool)
	var parts []string
	for _, d := range t.NativeLink {
		dir := d.Label.Dir.TargetDir()
		if !seen[dir] {
			seen[dir] = true
			parts = append(parts, "-Lnative="+dir)
		}
	}
	for _, lib := range t.InheritedLibs {
		parts = append(parts, "-Clink-arg=-l"+lib)
	}
	return strings.Join(parts, " ")
}
