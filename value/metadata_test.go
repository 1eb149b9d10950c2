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

import (
	"testing"

	"github.com/buildgraph/buildgraph/label"
)

func TestMetadataSetGet(t *testing.T) {
	m := NewMetadata(label.NewSourceDir("//foo"))
	m.Set("data_keys", []Value{NewString(Origin{}, "a"), NewString(Origin{}, "b")})

	got, ok := m.Get("data_keys")
	if !ok {
		t.Fatal("expected data_keys to be present")
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestMetadataKeys(t *testing.T) {
	m := NewMetadata(label.NewSourceDir("//foo"))
	m.Set("data_keys", []Value{NewString(Origin{}, "a")})
	m.Set("walk_keys", []Value{NewString(Origin{}, "b")})

	keys := m.Keys()
	if len(keys) != 2 {
		t.Fatalf("len(keys) = %d, want 2", len(keys))
	}
}
