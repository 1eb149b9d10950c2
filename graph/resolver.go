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
	"github.com/edwingeng/deque"
)

// workItem is a single frame on the resolver's explicit DFS worklist: the
// target reached, whether every edge on the path from the root to it was
// public, and whether it was reached directly from the root (depth 1, or
// through groups only, since a group's deps count as the crosser's own).
type workItem struct {
	target *Target
	public bool
	direct bool
}

// OnResolved computes t's derived state: recursive_hard_deps and the three
// Rust linkage closures (accessible, search-only, native-link). It must be
// called after every target t transitively depends on has itself already
// been resolved, since the closures are built from the dependencies'
// already-computed Accessible/InheritedLibs sets.
func OnResolved(t *Target) error {
	if err := detectCycle(t); err != nil {
		return err
	}

	recursive := newTargetSet()
	accessible := newTargetSet()
	publicAccessible := newTargetSet()
	searchOnly := newTargetSet()
	nativeLink := newTargetSet()
	inheritedLibs := newStringSet()
	inheritedLibDirs := newStringSet()
	groupsCrossed := newTargetSet()

	for _, d := range t.Deps {
		if d.Target.Kind != Group && !d.Target.VisibleTo(t.Label) {
			return &VisibilityError{From: t.Label, Dep: d.Target.Label}
		}
	}

	// A plain stack (push/pop from the same end) walks the dependency edges
	// depth-first, matching GN's own traversal order: a target's closure is
	// built by exhausting one dependency branch before moving to the next.
	q := deque.NewDeque()
	for i := len(t.Deps) - 1; i >= 0; i-- {
		d := t.Deps[i]
		if d.Data {
			continue
		}
		q.PushFront(workItem{target: d.Target, public: !d.Private, direct: true})
	}

	visited := make(map[*Target]bool)
	for q.Len() > 0 {
		item := q.PopFront().(workItem) // pop from the same end we pushed: LIFO, i.e. depth-first
		d := item.target

		if d.Kind == BundleData && t.Kind != CreateBundle {
			// bundle_data is only meaningful as an input to the
			// create_bundle target that actually packages it; every other
			// consumer treats it purely as a data dependency.
			continue
		}

		if d.Kind == Group {
			// groups are transparent: forward into their own deps using
			// the same public/private classification declared there,
			// without becoming a recursive_hard_dep or link dep themselves.
			// The group itself is still recorded so its own phony stamp can
			// be added as an order-only dep of whoever crossed it: a
			// target's hard deps may finish before the group's other,
			// unrelated members do, and ninja needs that edge to know to
			// wait anyway.
			groupsCrossed.add(d)
			for i := len(d.Deps) - 1; i >= 0; i-- {
				gd := d.Deps[i]
				if gd.Data {
					continue
				}
				q.PushFront(workItem{
					target: gd.Target,
					public: item.public && !gd.Private,
					direct: item.direct,
				})
			}
			continue
		}

		if !visited[d] {
			visited[d] = true
			recursive.add(d)
		}

		switch {
		case d.IsRust():
			// d is always accessible here: a direct dependency's crate can
			// always be --extern'd by the target that names it, even over a
			// private edge. Only entries reached via an unbroken public
			// chain (item.public) stay eligible to keep propagating outward
			// past d, independent of how d itself was reached.
			if item.direct || item.public {
				accessible.add(d)
				if item.public {
					publicAccessible.add(d)
				}
			} else {
				searchOnly.add(d)
			}

			if d.CrateType == CrateProcMacro {
				// proc-macro compilation is an isolated boundary: its own
				// dependencies never leak into this target's closures.
				continue
			}

			// d's own public-chain closure keeps forwarding as accessible,
			// regardless of the edge used to reach d: rustc needs the whole
			// public closure to resolve types d's public API re-exports
			// even when d itself was reached privately. The rest of d's
			// Accessible set (d's own direct-but-private deps) stops being
			// --extern-eligible here, demoted to search-only for whoever
			// depends on d.
			dPublic := make(map[*Target]bool, len(d.PublicAccessible))
			for _, rd := range d.PublicAccessible {
				dPublic[rd] = true
			}
			for i := len(d.PublicAccessible) - 1; i >= 0; i-- {
				q.PushFront(workItem{target: d.PublicAccessible[i], public: true, direct: false})
			}
			for _, rd := range d.Accessible {
				if !dPublic[rd] {
					searchOnly.add(rd)
				}
			}
			for _, rd := range d.SearchOnly {
				searchOnly.add(rd)
			}
			for _, rd := range d.NativeLink {
				nativeLink.add(rd)
			}
			for _, lib := range d.InheritedLibs {
				inheritedLibs.add(lib)
			}
			for _, dir := range d.InheritedLibDirs {
				inheritedLibDirs.add(dir)
			}

		case d.Kind == StaticLibrary || d.Kind == SharedLibrary || d.Kind == LoadableModule || d.Kind == SourceSet:
			nativeLink.add(d)
			for _, lib := range d.Libs {
				inheritedLibs.add(lib)
			}
			for _, dir := range d.LibDirs {
				inheritedLibDirs.add(dir)
			}
			for _, rd := range d.NativeLink {
				nativeLink.add(rd)
			}
			for _, lib := range d.InheritedLibs {
				inheritedLibs.add(lib)
			}
			for _, dir := range d.InheritedLibDirs {
				inheritedLibDirs.add(dir)
			}

		default:
			// actions, copy, generated_file, create_bundle, and bundle_data
			// reached from a create_bundle: ordering-only deps, no link
			// contribution beyond being a recursive hard dep.
		}
	}

	t.RecursiveHardDeps = recursive.list()
	t.GroupDeps = groupsCrossed.list()
	t.Accessible = accessible.list()
	t.PublicAccessible = publicAccessible.list()
	t.SearchOnly = searchOnly.list()
	t.NativeLink = nativeLink.list()
	t.InheritedLibs = inheritedLibs.list()
	t.InheritedLibDirs = inheritedLibDirs.list()

	if t.Kind == Group || len(t.Sources) == 0 {
		t.DependencyIsPhony = true
	}
	t.Resolved = true
	return nil
}

// detectCycle walks t's dependency edges looking for a path back to t.
// It is cheap relative to the closure computation and run unconditionally
// so a cycle produces a clear error rather than infinite recursion inside
// the closure walk.
func detectCycle(t *Target) error {
	var path []*Target
	onPath := make(map[*Target]bool)

	var visit func(cur *Target) error
	visit = func(cur *Target) error {
		if onPath[cur] {
			start := 0
			for path[start] != cur {
				start++
			}
			cyclePath := append(append([]*Target(nil), path[start:]...), cur)
			return newCycleError(cyclePath)
		}
		onPath[cur] = true
		path = append(path, cur)
		for _, d := range cur.Deps {
			if d.Data {
				continue
			}
			if err := visit(d.Target); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		onPath[cur] = false
		return nil
	}

	return visit(t)
}

func newCycleError(path []*Target) error {
	e := &CycleError{}
	for _, t := range path {
		e.Path = append(e.Path, t.Label)
	}
	return e
}

type targetSet struct {
	seen  map[*Target]bool
	order []*Target
}

func newTargetSet() *targetSet {
	return &targetSet{seen: make(map[*Target]bool)}
}

func (s *targetSet) add(t *Target) {
	if !s.seen[t] {
		s.seen[t] = true
		s.order = append(s.order, t)
	}
}

func (s *targetSet) list() []*Target { return s.order }

type stringSet struct {
	seen  map[string]bool
	order []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]bool)}
}

func (s *stringSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.order = append(s.order, v)
	}
}

func (s *stringSet) list() []string { return s.order }
