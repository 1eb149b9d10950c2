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

// Package orchestrator drives emission: it iterates toolchains, dispatches
// bounded-concurrency emission tasks over a target graph, and persists
// each manifest fragment with a write-if-changed primitive.
package orchestrator

import (
	"os"

	"github.com/zeebo/blake3"
)

// WriteIfChanged writes data to filename only if filename doesn't already
// exist with identical content, comparing by blake3 digest instead of a
// byte-by-byte diff.
//
// It reports whether the file was actually (re)written.
func WriteIfChanged(filename string, data []byte, perm os.FileMode) (bool, error) {
	existing, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, err
		}
		if err := os.WriteFile(filename, data, perm); err != nil {
			return false, err
		}
		return true, nil
	}

	if contentHash(existing) == contentHash(data) {
		return false, nil
	}

	if err := os.WriteFile(filename, data, perm); err != nil {
		return false, err
	}
	return true, nil
}

func contentHash(data []byte) [32]byte {
	return blake3.Sum256(data)
}
