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

// Package label implements the Label and Path model: a target identity
// (directory + short name, optionally toolchain-qualified) and the
// conversions between source-relative and output-relative path spaces.
package label

import (
	"fmt"
	"strings"
)

// SourceDir is a directory path rooted at the source tree, always written
// in "//a/b/" form (leading "//", trailing "/").
type SourceDir string

// NewSourceDir canonicalizes an arbitrary "//"-rooted directory string.
func NewSourceDir(s string) SourceDir {
	if s == "" {
		return "//"
	}
	if !strings.HasPrefix(s, "//") {
		s = "//" + strings.TrimPrefix(s, "/")
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return SourceDir(s)
}

// String returns the canonical "//a/b/" form.
func (d SourceDir) String() string { return string(d) }

// OutputRelative renders d relative to the build output directory, in the
// "../../" style GN uses when the source tree and output tree are
// siblings (one "../" per output-root path component, by convention two:
// "../../").
func (d SourceDir) OutputRelative() string {
	trimmed := strings.TrimPrefix(string(d), "//")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return "../.."
	}
	return "../../" + trimmed
}

// TargetDir returns the output-relative directory a target in d's source
// directory writes its intermediate files under: "obj/<dir-without-//>".
func (d SourceDir) TargetDir() string {
	trimmed := strings.TrimPrefix(string(d), "//")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return "obj"
	}
	return "obj/" + trimmed
}

// SourceFile is a single file path rooted at the source tree, "//a/b.rs".
type SourceFile string

// Dir returns the SourceDir containing f.
func (f SourceFile) Dir() SourceDir {
	s := string(f)
	idx := strings.LastIndex(s, "/")
	if idx < 0 {
		return NewSourceDir("//")
	}
	return NewSourceDir(s[:idx+1])
}

// OutputRelative renders f relative to the build output directory.
func (f SourceFile) OutputRelative() string {
	trimmed := strings.TrimPrefix(string(f), "//")
	return "../../" + trimmed
}

// Label identifies a target: a directory, a short name, and an optional
// toolchain label. Labels are immutable after construction and have a
// total lexicographic ordering over (Dir, Name, Toolchain).
type Label struct {
	Dir       SourceDir
	Name      string
	Toolchain string // empty means "default toolchain"; otherwise a label string
}

// New constructs a Label in the default toolchain.
func New(dir SourceDir, name string) Label {
	return Label{Dir: dir, Name: name}
}

// WithToolchain returns a copy of l qualified by toolchain.
func (l Label) WithToolchain(toolchain string) Label {
	l.Toolchain = toolchain
	return l
}

// String renders the label the way GN/Ninja diagnostics do: "//dir:name"
// or "//dir:name(toolchain)" when toolchain-qualified.
func (l Label) String() string {
	dir := strings.TrimSuffix(string(l.Dir), "/")
	if dir == "" || dir == "/" {
		dir = "//"
	}
	s := fmt.Sprintf("%s:%s", dir, l.Name)
	if l.Toolchain != "" {
		s += "(" + l.Toolchain + ")"
	}
	return s
}

// Equal reports whether l and other name the same target.
func (l Label) Equal(other Label) bool {
	return l.Dir == other.Dir && l.Name == other.Name && l.Toolchain == other.Toolchain
}

// Less implements the total ordering over (Dir, Name, Toolchain), used
// wherever emission must sort targets deterministically by label.
func (l Label) Less(other Label) bool {
	if l.Dir != other.Dir {
		return l.Dir < other.Dir
	}
	if l.Name != other.Name {
		return l.Name < other.Name
	}
	return l.Toolchain < other.Toolchain
}
