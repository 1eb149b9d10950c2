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

package value

import "github.com/buildgraph/buildgraph/label"

// Metadata holds a target's arbitrary key -> list-of-Value contents, plus
// the directory it was declared in (used to rebase file-like values during
// a walk). It is a direct port of GN's Metadata class.
type Metadata struct {
	Contents  map[string][]Value
	SourceDir label.SourceDir
}

// NewMetadata builds an empty Metadata rooted at dir.
func NewMetadata(dir label.SourceDir) *Metadata {
	return &Metadata{Contents: make(map[string][]Value), SourceDir: dir}
}

// Set replaces the values stored under key.
func (m *Metadata) Set(key string, values []Value) {
	if m.Contents == nil {
		m.Contents = make(map[string][]Value)
	}
	m.Contents[key] = values
}

// Get returns the values stored under key, and whether key is present.
func (m *Metadata) Get(key string) ([]Value, bool) {
	v, ok := m.Contents[key]
	return v, ok
}

// Keys returns the set of keys with any contents, for callers that need to
// know what a target contributes without caring about a specific key.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, len(m.Contents))
	for k := range m.Contents {
		keys = append(keys, k)
	}
	return keys
}
