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

// Package graph implements the target graph: the Target node type, its
// dependency edges, and the resolver that computes each target's derived,
// post-dependency-closure state (recursive hard deps, and the Rust
// accessible/search-only/native-link linkage closures).
package graph

import (
	"github.com/buildgraph/buildgraph/label"
	"github.com/buildgraph/buildgraph/value"
)

// OutputKind is the GN target type. Only a subset (the EXECUTABLE /
// *_LIBRARY / RUST_PROC_MACRO family) carries Rust-specific fields, but all
// kinds participate in dependency resolution.
type OutputKind int

const (
	UnknownKind OutputKind = iota
	Action
	ActionForEach
	BundleData
	CreateBundle
	CopyFiles
	Executable
	Group
	GeneratedFile
	LoadableModule
	RustProcMacro
	SharedLibrary
	SourceSet
	StaticLibrary
	RustLibrary
)

func (k OutputKind) String() string {
	switch k {
	case Action:
		return "action"
	case ActionForEach:
		return "action_foreach"
	case BundleData:
		return "bundle_data"
	case CreateBundle:
		return "create_bundle"
	case CopyFiles:
		return "copy"
	case Executable:
		return "executable"
	case Group:
		return "group"
	case GeneratedFile:
		return "generated_file"
	case LoadableModule:
		return "loadable_module"
	case RustProcMacro:
		return "rust_proc_macro"
	case SharedLibrary:
		return "shared_library"
	case SourceSet:
		return "source_set"
	case StaticLibrary:
		return "static_library"
	case RustLibrary:
		return "rust_library"
	default:
		return "unknown"
	}
}

// CrateType is the Rust-specific linkage kind, orthogonal to OutputKind:
// two targets can both be OutputKind Executable/*Library but differ in how
// rustc should link them.
type CrateType int

const (
	NoCrateType CrateType = iota
	CrateBin
	CrateRlib
	CrateDylib
	CrateCdylib
	CrateProcMacro
	CrateStaticlib
)

func (c CrateType) String() string {
	switch c {
	case CrateBin:
		return "bin"
	case CrateRlib:
		return "rlib"
	case CrateDylib:
		return "dylib"
	case CrateCdylib:
		return "cdylib"
	case CrateProcMacro:
		return "proc-macro"
	case CrateStaticlib:
		return "staticlib"
	default:
		return ""
	}
}

// Dep is a single dependency edge, qualified by how it was declared.
type Dep struct {
	Target  *Target
	Private bool // true if declared in "deps", false if in "public_deps"
	Data    bool // true if declared in "data_deps" (not a link dependency)
}

// Target is a single node in the build graph.
type Target struct {
	Label label.Label
	Kind  OutputKind

	Sources []label.SourceFile
	Inputs  []label.SourceFile // additional non-compiled inputs, e.g. for actions

	Deps       []Dep
	Visibility []label.Label // labels (may contain "*" globs) allowed to depend on this target

	Toolchain string
	Metadata  *value.Metadata

	// Rust-specific. Zero values for non-Rust targets.
	CrateRoot   label.SourceFile
	CrateName   string
	CrateType   CrateType
	AliasedDeps map[string]label.Label // public crate name -> dependency label, for renamed deps
	Edition     string

	// Additional non-Rust link inputs, e.g. libs/lib_dirs from a source_set.
	Libs    []string
	LibDirs []string
	Ldflags []string

	// generated_file-specific. Output is the single file, relative to the
	// build output directory, this target writes. Contents, when set, is
	// written out verbatim and DataKeys/WalkKeys/RebaseFiles are unused;
	// otherwise DataKeys (and optionally WalkKeys, defaulting to
	// metadatawalk.DefaultWalkKeys() when nil) drive a metadata walk over
	// this target's own deps to produce the written file's contents.
	Output      string
	Contents    []value.Value
	DataKeys    []string
	WalkKeys    []string
	RebaseFiles bool

	// Derived state, populated by OnResolved. Not safe to read before
	// resolution completes for this target.
	Resolved          bool
	RecursiveHardDeps []*Target
	// GroupDeps is every group crossed while walking to RecursiveHardDeps:
	// transparent group membership means a group's own members land
	// directly in RecursiveHardDeps, but the group's own phony stamp still
	// needs to gate this target as an order-only dependency, since the
	// group may have other members this target's hard deps don't cover.
	GroupDeps         []*Target
	Accessible        []*Target // --extern candidates
	// PublicAccessible is the subset of Accessible that was reached via an
	// unbroken public chain starting at this target's own direct deps. A
	// direct dependency is always in Accessible (its own crate can always be
	// --extern'd), but only the subset in PublicAccessible is safe to keep
	// forwarding to this target's own dependers: a direct private
	// dependency's crate is accessible here but stops here, while its own
	// public sub-dependencies (needed to resolve types the private
	// dependency re-exports) keep propagating outward regardless of the
	// private edge that first reached it.
	PublicAccessible  []*Target
	SearchOnly        []*Target // -Ldependency=DIR only, no --extern
	NativeLink        []*Target // -Lnative=DIR + -Clink-arg=
	InheritedLibs     []string
	InheritedLibDirs  []string
	DependencyOutput  string // the phony or real output file representing this target's "done" signal
	DependencyIsPhony bool
}

// IsRust reports whether t has a crate type and should be emitted by the
// Rust binary writer rather than the generic target writer.
func (t *Target) IsRust() bool {
	return t.CrateType != NoCrateType
}

// VisibleTo reports whether from is allowed to depend on t, per t's
// Visibility list. An empty Visibility list means "visible everywhere",
// matching GN's default.
func (t *Target) VisibleTo(from label.Label) bool {
	if len(t.Visibility) == 0 {
		return true
	}
	for _, v := range t.Visibility {
		if visibilityMatches(v, from) {
			return true
		}
	}
	return false
}

// visibilityMatches implements the two visibility patterns GN supports: an
// exact label, or a directory wildcard "//dir:*" matching any name in dir.
func visibilityMatches(pattern, from label.Label) bool {
	if pattern.Name == "*" {
		return pattern.Dir == from.Dir
	}
	return pattern.Equal(from)
}

// PublicDeps returns the subset of t's Deps that are not private and not
// data-only: the edges that cross into a dependent's own public closure.
func (t *Target) PublicDeps() []*Target {
	var out []*Target
	for _, d := range t.Deps {
		if !d.Private && !d.Data {
			out = append(out, d.Target)
		}
	}
	return out
}

// PrivateDeps returns the subset of t's Deps declared private (deps, not
// public_deps) and not data-only.
func (t *Target) PrivateDeps() []*Target {
	var out []*Target
	for _, d := range t.Deps {
		if d.Private && !d.Data {
			out = append(out, d.Target)
		}
	}
	return out
}

// LinkDeps returns every non-data dependency, public or private, in
// declaration order.
func (t *Target) LinkDeps() []*Target {
	var out []*Target
	for _, d := range t.Deps {
		if !d.Data {
			out = append(out, d.Target)
		}
	}
	return out
}

// DataDeps returns the data-only dependency edges.
func (t *Target) DataDeps() []*Target {
	var out []*Target
	for _, d := range t.Deps {
		if d.Data {
			out = append(out, d.Target)
		}
	}
	return out
}
