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
	"testing"

	"github.com/buildgraph/buildgraph/label"
)

func rustTarget(name string, crateType CrateType) *Target {
	return &Target{
		Label:     label.New(label.NewSourceDir("//foo"), name),
		Kind:      Executable,
		CrateType: crateType,
		CrateName: name,
	}
}

func containsTarget(list []*Target, t *Target) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// RlibDeps: a direct rlib dependency is --extern'd (accessible).
func TestResolverRlibDeps(t *testing.T) {
	dep := rustTarget("mylib", CrateRlib)
	if err := OnResolved(dep); err != nil {
		t.Fatalf("OnResolved(dep) error = %v", err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: dep, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatalf("OnResolved(main) error = %v", err)
	}

	if !containsTarget(main.Accessible, dep) {
		t.Errorf("expected %v in Accessible, got %v", dep.Label, main.Accessible)
	}
}

// DylibDeps: a direct dylib dependency is also --extern'd directly.
func TestResolverDylibDeps(t *testing.T) {
	dep := rustTarget("mylib", CrateDylib)
	if err := OnResolved(dep); err != nil {
		t.Fatalf("OnResolved(dep) error = %v", err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: dep, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatalf("OnResolved(main) error = %v", err)
	}

	if !containsTarget(main.Accessible, dep) {
		t.Errorf("expected %v in Accessible, got %v", dep.Label, main.Accessible)
	}
}

// transitive private rlib dep is search-only for the top-level target, not
// directly accessible (it was only reachable through a private edge beyond
// the first hop).
func TestResolverTransitivePrivateIsSearchOnly(t *testing.T) {
	grand := rustTarget("grand", CrateRlib)
	if err := OnResolved(grand); err != nil {
		t.Fatal(err)
	}

	mid := rustTarget("mid", CrateRlib)
	mid.Deps = []Dep{{Target: grand, Private: true}}
	if err := OnResolved(mid); err != nil {
		t.Fatal(err)
	}

	top := rustTarget("top", CrateBin)
	top.Deps = []Dep{{Target: mid, Private: true}}
	if err := OnResolved(top); err != nil {
		t.Fatal(err)
	}

	if !containsTarget(top.Accessible, mid) {
		t.Errorf("expected direct dep %v in Accessible", mid.Label)
	}
	if containsTarget(top.Accessible, grand) {
		t.Errorf("did not expect transitively-private dep %v in Accessible", grand.Label)
	}
	if !containsTarget(top.SearchOnly, grand) {
		t.Errorf("expected transitively-private dep %v in SearchOnly", grand.Label)
	}
}

// transitive public rlib dep is promoted to accessible through the chain.
func TestResolverTransitivePublicIsAccessible(t *testing.T) {
	grand := rustTarget("grand", CrateRlib)
	if err := OnResolved(grand); err != nil {
		t.Fatal(err)
	}

	mid := rustTarget("mid", CrateRlib)
	mid.Deps = []Dep{{Target: grand, Private: false}}
	if err := OnResolved(mid); err != nil {
		t.Fatal(err)
	}

	top := rustTarget("top", CrateBin)
	top.Deps = []Dep{{Target: mid, Private: true}}
	if err := OnResolved(top); err != nil {
		t.Fatal(err)
	}

	if !containsTarget(top.Accessible, grand) {
		t.Errorf("expected publicly-reachable dep %v in Accessible", grand.Label)
	}
}

// RustProcMacro: a proc-macro dependency is directly accessible, but its own
// dependencies never leak past the compilation boundary.
func TestResolverRustProcMacroBoundary(t *testing.T) {
	procMacroDep := rustTarget("helper", CrateRlib)
	if err := OnResolved(procMacroDep); err != nil {
		t.Fatal(err)
	}

	macro := rustTarget("mymacro", CrateProcMacro)
	macro.Deps = []Dep{{Target: procMacroDep, Private: false}}
	if err := OnResolved(macro); err != nil {
		t.Fatal(err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: macro, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}

	if !containsTarget(main.Accessible, macro) {
		t.Errorf("expected proc-macro %v in Accessible", macro.Label)
	}
	if containsTarget(main.Accessible, procMacroDep) || containsTarget(main.SearchOnly, procMacroDep) {
		t.Errorf("proc-macro's own dep %v must not cross the boundary", procMacroDep.Label)
	}
}

// GroupDeps: a group is transparent and forwards its own deps.
func TestResolverGroupDeps(t *testing.T) {
	real := rustTarget("reallib", CrateRlib)
	if err := OnResolved(real); err != nil {
		t.Fatal(err)
	}

	group := &Target{Label: label.New(label.NewSourceDir("//foo"), "grp"), Kind: Group}
	group.Deps = []Dep{{Target: real, Private: false}}
	if err := OnResolved(group); err != nil {
		t.Fatal(err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: group, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}

	if containsTarget(main.RecursiveHardDeps, group) {
		t.Errorf("group %v should be transparent, not a recursive hard dep", group.Label)
	}
	if !containsTarget(main.Accessible, real) {
		t.Errorf("expected group member %v promoted into Accessible", real.Label)
	}
	if !containsTarget(main.GroupDeps, group) {
		t.Errorf("expected %v recorded in GroupDeps so its stamp gates main as order-only, got %v", group.Label, main.GroupDeps)
	}
}

// NonRustDeps / CdylibDeps: a non-Rust static library dependency goes to
// native-link, not accessible/search-only.
func TestResolverNonRustNativeLink(t *testing.T) {
	lib := &Target{
		Label: label.New(label.NewSourceDir("//foo"), "native"),
		Kind:  StaticLibrary,
		Libs:  []string{"m"},
	}
	if err := OnResolved(lib); err != nil {
		t.Fatal(err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: lib, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}

	if !containsTarget(main.NativeLink, lib) {
		t.Errorf("expected %v in NativeLink", lib.Label)
	}
	if containsTarget(main.Accessible, lib) {
		t.Errorf("non-rust dep %v must not appear in Accessible", lib.Label)
	}
	found := false
	for _, l := range main.InheritedLibs {
		if l == "m" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected inherited lib %q, got %v", "m", main.InheritedLibs)
	}
}

// RenamedDeps: aliased_deps only affects the public crate name used at the
// writer layer, not which closure the target lands in.
func TestResolverRenamedDepStillAccessible(t *testing.T) {
	dep := rustTarget("real_name", CrateRlib)
	if err := OnResolved(dep); err != nil {
		t.Fatal(err)
	}

	main := rustTarget("main", CrateBin)
	main.AliasedDeps = map[string]label.Label{"friendly_name": dep.Label}
	main.Deps = []Dep{{Target: dep, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}

	if !containsTarget(main.Accessible, dep) {
		t.Errorf("expected renamed dep %v in Accessible", dep.Label)
	}
}

func TestResolverCycleDetected(t *testing.T) {
	a := &Target{Label: label.New(label.NewSourceDir("//foo"), "a"), Kind: SourceSet}
	b := &Target{Label: label.New(label.NewSourceDir("//foo"), "b"), Kind: SourceSet}
	a.Deps = []Dep{{Target: b, Private: true}}
	b.Deps = []Dep{{Target: a, Private: true}}

	err := OnResolved(a)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("error type = %T, want *CycleError", err)
	}
}

func TestResolverVisibilityViolation(t *testing.T) {
	dep := &Target{
		Label:      label.New(label.NewSourceDir("//bar"), "private_lib"),
		Kind:       StaticLibrary,
		Visibility: []label.Label{label.New(label.NewSourceDir("//bar"), "*")},
	}
	main := &Target{
		Label: label.New(label.NewSourceDir("//foo"), "main"),
		Kind:  Executable,
		Deps:  []Dep{{Target: dep, Private: true}},
	}

	err := OnResolved(main)
	if err == nil {
		t.Fatal("expected visibility error, got nil")
	}
	if _, ok := err.(*VisibilityError); !ok {
		t.Errorf("error type = %T, want *VisibilityError", err)
	}
}

// RlibDeps: the four-level chain from the GN rust binary target writer's own
// RlibDeps case — main privately depends on direct; direct publicly depends
// on publiccrate and privately depends on privatecrate; publiccrate publicly
// depends on farcrate. main's --extern set must include direct, publiccrate,
// and farcrate (the whole public chain past direct), but not privatecrate,
// which still owes main a -Ldependency search path entry via SearchOnly.
func TestResolverRlibDepsFourLevelChain(t *testing.T) {
	farcrate := rustTarget("farcrate", CrateRlib)
	if err := OnResolved(farcrate); err != nil {
		t.Fatal(err)
	}

	publiccrate := rustTarget("publiccrate", CrateRlib)
	publiccrate.Deps = []Dep{{Target: farcrate, Private: false}}
	if err := OnResolved(publiccrate); err != nil {
		t.Fatal(err)
	}

	privatecrate := rustTarget("privatecrate", CrateRlib)
	if err := OnResolved(privatecrate); err != nil {
		t.Fatal(err)
	}

	direct := rustTarget("direct", CrateRlib)
	direct.Deps = []Dep{
		{Target: publiccrate, Private: false},
		{Target: privatecrate, Private: true},
	}
	if err := OnResolved(direct); err != nil {
		t.Fatal(err)
	}

	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: direct, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}

	for _, want := range []*Target{direct, publiccrate, farcrate} {
		if !containsTarget(main.Accessible, want) {
			t.Errorf("expected %v in Accessible, got %v", want.Label, main.Accessible)
		}
	}
	if containsTarget(main.Accessible, privatecrate) {
		t.Errorf("privatecrate must not be in Accessible, got %v", main.Accessible)
	}
	if !containsTarget(main.SearchOnly, privatecrate) {
		t.Errorf("expected privatecrate in SearchOnly, got %v", main.SearchOnly)
	}
}

func TestResolverBundleDataExcludedFromClosures(t *testing.T) {
	bd := &Target{Label: label.New(label.NewSourceDir("//foo"), "asset"), Kind: BundleData}
	main := rustTarget("main", CrateBin)
	main.Deps = []Dep{{Target: bd, Private: true}}
	if err := OnResolved(main); err != nil {
		t.Fatal(err)
	}
	if containsTarget(main.RecursiveHardDeps, bd) {
		t.Errorf("bundle_data %v should not be a recursive hard dep outside create_bundle", bd.Label)
	}
}

func TestResolverBundleDataIncludedForCreateBundle(t *testing.T) {
	bd := &Target{Label: label.New(label.NewSourceDir("//foo"), "asset"), Kind: BundleData}
	bundle := &Target{Label: label.New(label.NewSourceDir("//foo"), "bundle"), Kind: CreateBundle}
	bundle.Deps = []Dep{{Target: bd, Private: true}}
	if err := OnResolved(bundle); err != nil {
		t.Fatal(err)
	}
	if !containsTarget(bundle.RecursiveHardDeps, bd) {
		t.Errorf("bundle_data %v should be a recursive hard dep of the create_bundle %v that packages it, got %v", bd.Label, bundle.Label, bundle.RecursiveHardDeps)
	}
}
