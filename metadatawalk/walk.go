// Copyright 2018 The Chromium Authors. All rights reserved.
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

// Package metadatawalk implements the metadata collection walk: starting
// from a set of seed targets, gather the values stored under dataKeys,
// optionally recursing into dependencies gated by walkKeys barriers.
package metadatawalk

import (
	"github.com/edwingeng/deque"

	"github.com/buildgraph/buildgraph/graph"
	"github.com/buildgraph/buildgraph/label"
	"github.com/buildgraph/buildgraph/value"
)

// Result is the outcome of a walk: the concatenated values collected under
// dataKeys, in visitation order, plus the set of targets actually visited
// (seeds first, each in the order first reached).
type Result struct {
	Values        []value.Value
	TargetsWalked []*graph.Target
}

// WalkMetadata collects dataKeys values from seeds and, transitively, from
// dependencies reachable under the walkKeys barrier rule:
//
//   - if walkKeys is empty, every dependency (public, private, and data) of
//     a visited target is walked next, with no restriction.
//   - if walkKeys is non-empty, only the targets named by label strings
//     stored under those keys in the current target's metadata are walked
//     next; a named label that isn't actually a dependency of the target
//     is an error.
//
// rebaseFiles is accepted for interface compatibility with the walk
// contract; this repository's targets carry no filename-typed metadata
// values, so it is currently a no-op.
func WalkMetadata(seeds []*graph.Target, dataKeys, walkKeys []string, rebaseFiles bool) (Result, error) {
	var result Result
	visited := make(map[*graph.Target]bool)

	// A plain stack (push/pop from the same end) walks the dependency edges
	// depth-first: each target's own next-targets are exhausted before
	// moving on to its siblings, matching the metadata walk's documented
	// traversal order.
	q := deque.NewDeque()
	for i := len(seeds) - 1; i >= 0; i-- {
		q.PushFront(seeds[i])
	}

	for q.Len() > 0 {
		t := q.PopFront().(*graph.Target) // pop from the same end we pushed: LIFO, i.e. depth-first
		if visited[t] {
			continue
		}
		visited[t] = true
		result.TargetsWalked = append(result.TargetsWalked, t)

		if t.Metadata != nil {
			for _, key := range dataKeys {
				if values, ok := t.Metadata.Get(key); ok {
					result.Values = append(result.Values, values...)
				}
			}
		}

		next, err := nextTargets(t, walkKeys)
		if err != nil {
			return Result{}, err
		}
		for i := len(next) - 1; i >= 0; i-- {
			q.PushFront(next[i])
		}
	}

	return result, nil
}

// nextTargets decides which of t's dependencies to walk next, per the
// barrier rule above. Within a non-empty walkKeys, the key "" is special: it
// means "keep walking every one of t's deps" regardless of what t's own
// metadata holds, the same as if walkKeys were empty, and coexists with
// named keys rather than being looked up in t.Metadata like they are.
func nextTargets(t *graph.Target, walkKeys []string) ([]*graph.Target, error) {
	allDeps := make([]*graph.Target, 0, len(t.Deps))
	for _, d := range t.Deps {
		allDeps = append(allDeps, d.Target)
	}
	if len(walkKeys) == 0 {
		return allDeps, nil
	}

	var depsByLabel map[string]*graph.Target

	var next []*graph.Target
	for _, key := range walkKeys {
		if key == "" {
			next = append(next, allDeps...)
			continue
		}

		if t.Metadata == nil {
			continue
		}
		barrierValues, ok := t.Metadata.Get(key)
		if !ok {
			continue
		}

		if depsByLabel == nil {
			depsByLabel = make(map[string]*graph.Target)
			for _, d := range allDeps {
				depsByLabel[d.Label.String()] = d
			}
		}
		for _, bv := range barrierValues {
			labelStr, err := bv.StringValue()
			if err != nil {
				return nil, err
			}
			dep, ok := depsByLabel[labelStr]
			if !ok {
				return nil, &graph.MetadataWalkBarrierError{
					Barrier: parseLabelOrEmpty(labelStr),
					From:    t.Label,
				}
			}
			next = append(next, dep)
		}
	}
	return next, nil
}

// parseLabelOrEmpty renders a barrier string back into a label.Label for
// the error message. Barrier values are always fully-qualified "//dir:name"
// strings produced by the same front end that builds the dependency graph,
// so a best-effort split on ":" is sufficient here; it only feeds a
// diagnostic string, never a graph lookup.
func parseLabelOrEmpty(s string) label.Label {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return label.New(label.NewSourceDir(s[:i]), s[i+1:])
		}
	}
	return label.New(label.NewSourceDir(s), "")
}

// DefaultWalkKeys returns the walk_keys a generated_file target's barrier
// defaults to when it declares none of its own: the single empty-string
// key, meaning "walk every dependency's own walk output, not just a named
// subset" per metadata.h's next_walk_keys convention.
func DefaultWalkKeys() []string {
	return []string{""}
}

// WalkGeneratedFile produces the values a generated_file target t writes to
// its single output: t.Contents verbatim if set, otherwise the result of
// walking t's own dependencies for t.DataKeys, under t.WalkKeys or
// DefaultWalkKeys() if t declares none.
func WalkGeneratedFile(t *graph.Target) (Result, error) {
	if len(t.Contents) > 0 || len(t.DataKeys) == 0 {
		return Result{Values: t.Contents, TargetsWalked: []*graph.Target{t}}, nil
	}

	walkKeys := t.WalkKeys
	if walkKeys == nil {
		walkKeys = DefaultWalkKeys()
	}
	return WalkMetadata(t.LinkDeps(), t.DataKeys, walkKeys, t.RebaseFiles)
}
