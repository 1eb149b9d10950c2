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
	"strings"
	"testing"

	"github.com/buildgraph/buildgraph/graph"
	"github.com/buildgraph/buildgraph/label"
)

func writeTargetString(t *testing.T, target *graph.Target) string {
	var buf strings.Builder
	w := NewWriter(&buf)
	if err := WriteTarget(target, w); err != nil {
		t.Fatalf("WriteTarget() error = %v", err)
	}
	return buf.String()
}

func TestWriteTargetGroupPhonyStamp(t *testing.T) {
	member := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "member"),
		Kind:  graph.SourceSet,
	}
	if err := graph.OnResolved(member); err != nil {
		t.Fatal(err)
	}

	group := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "grp"),
		Kind:  graph.Group,
		Deps:  []graph.Dep{{Target: member, Private: false}},
	}
	if err := graph.OnResolved(group); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, group)
	want := "build obj/foo/grp.stamp: phony | obj/foo/member.stamp\n"
	if got != want {
		t.Errorf("WriteTarget() =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteTargetConsumerOfGroupGetsOrderOnlyPhony(t *testing.T) {
	member := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "member"),
		Kind:  graph.SourceSet,
	}
	if err := graph.OnResolved(member); err != nil {
		t.Fatal(err)
	}

	group := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "grp"),
		Kind:  graph.Group,
		Deps:  []graph.Dep{{Target: member, Private: false}},
	}
	if err := graph.OnResolved(group); err != nil {
		t.Fatal(err)
	}

	main := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "main"),
		Kind:  graph.Executable,
		Deps:  []graph.Dep{{Target: group, Private: true}},
	}
	if err := graph.OnResolved(main); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, main)
	want := "build obj/foo/main.stamp: phony | obj/foo/member.stamp || obj/foo/grp.stamp\n"
	if got != want {
		t.Errorf("WriteTarget() =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteRustTargetConsumerOfGroupGetsOrderOnlyPhony(t *testing.T) {
	member := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "member"),
		Kind:  graph.SourceSet,
	}
	if err := graph.OnResolved(member); err != nil {
		t.Fatal(err)
	}

	group := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "grp"),
		Kind:  graph.Group,
		Deps:  []graph.Dep{{Target: member, Private: false}},
	}
	if err := graph.OnResolved(group); err != nil {
		t.Fatal(err)
	}

	root := label.SourceFile("//foo/main.rs")
	main := &graph.Target{
		Label:     label.New(label.NewSourceDir("//foo"), "main"),
		Kind:      graph.Executable,
		Sources:   []label.SourceFile{root},
		CrateRoot: root,
		CrateName: "main",
		CrateType: graph.CrateBin,
		Deps:      []graph.Dep{{Target: group, Private: true}},
	}
	if err := graph.OnResolved(main); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, main)
	if !strings.Contains(got, "|| obj/foo/grp.stamp") {
		t.Errorf("WriteTarget() = %q, want the build edge order-only on the crossed group's stamp", got)
	}
}

func TestWriteTargetCreateBundleConsumesBundleData(t *testing.T) {
	asset := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "asset"),
		Kind:  graph.BundleData,
	}
	if err := graph.OnResolved(asset); err != nil {
		t.Fatal(err)
	}

	bundle := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "bundle"),
		Kind:  graph.CreateBundle,
		Deps:  []graph.Dep{{Target: asset, Private: true}},
	}
	if err := graph.OnResolved(bundle); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, bundle)
	want := "build obj/foo/bundle.stamp: phony | obj/foo/asset.stamp\n"
	if got != want {
		t.Errorf("WriteTarget() =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteTargetDataDepsGetOrderOnlyPhony(t *testing.T) {
	asset := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "asset"),
		Kind:  graph.CopyFiles,
	}
	if err := graph.OnResolved(asset); err != nil {
		t.Fatal(err)
	}

	main := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "main"),
		Kind:  graph.Executable,
		Deps:  []graph.Dep{{Target: asset, Data: true}},
	}
	if err := graph.OnResolved(main); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, main)
	want := "build obj/foo/main.datadeps.stamp: phony | obj/foo/asset.stamp\n" +
		"build obj/foo/main.stamp: phony || obj/foo/main.datadeps.stamp\n"
	if got != want {
		t.Errorf("WriteTarget() =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteRustTargetWithDataDepsGetsOrderOnlyPhony(t *testing.T) {
	asset := &graph.Target{
		Label: label.New(label.NewSourceDir("//foo"), "asset"),
		Kind:  graph.CopyFiles,
	}
	if err := graph.OnResolved(asset); err != nil {
		t.Fatal(err)
	}

	root := label.SourceFile("//foo/main.rs")
	main := &graph.Target{
		Label:     label.New(label.NewSourceDir("//foo"), "main"),
		Kind:      graph.Executable,
		Sources:   []label.SourceFile{root},
		CrateRoot: root,
		CrateName: "main",
		CrateType: graph.CrateBin,
		Deps:      []graph.Dep{{Target: asset, Data: true}},
	}
	if err := graph.OnResolved(main); err != nil {
		t.Fatal(err)
	}

	got := writeTargetString(t, main)
	if !strings.HasPrefix(got, "build obj/foo/main.datadeps.stamp: phony | obj/foo/asset.stamp\n") {
		t.Errorf("WriteTarget() = %q, want a leading data_deps phony line", got)
	}
	if !strings.Contains(got, "|| obj/foo/main.datadeps.stamp") {
		t.Errorf("WriteTarget() = %q, want the build edge order-only on the data_deps phony", got)
	}
}
