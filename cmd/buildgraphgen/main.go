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

// Command buildgraphgen wires a small built-in target graph through the
// resolver and orchestrator and writes the resulting Ninja manifest tree.
// Argument parsing is deliberately thin: the declarative front end that
// would build a real target graph from source is out of scope here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/buildgraph/buildgraph/graph"
	"github.com/buildgraph/buildgraph/label"
	"github.com/buildgraph/buildgraph/orchestrator"
)

func main() {
	outDir := flag.String("out", "out", "directory to write the Ninja manifest tree to")
	sample := flag.String("sample", "bin", "which built-in sample graph to emit: bin or lib")
	flag.Parse()

	toolchains, err := buildSampleGraph(*sample)
	if err != nil {
		fatalf("%s", err)
	}

	report, err := orchestrator.WriteAll(orchestrator.BuildSettings{OutDir: *outDir}, toolchains)
	if err != nil {
		fatalf("%s", err)
	}

	color.New(color.FgGreen, color.Bold).Printf("wrote %s", report.TopLevelPath)
	fmt.Printf(" (%d toolchain(s), %d file(s) rewritten, run %s)\n",
		len(report.Toolchains), report.FilesRewritten, report.RunID)
}

func buildSampleGraph(sample string) ([]*graph.Toolchain, error) {
	switch sample {
	case "bin":
		return []*graph.Toolchain{sampleBinaryToolchain()}, nil
	case "lib":
		return []*graph.Toolchain{sampleLibraryToolchain()}, nil
	default:
		return nil, fmt.Errorf("unknown sample graph %q, want %q or %q", sample, "bin", "lib")
	}
}

func sampleBinaryToolchain() *graph.Toolchain {
	root := label.SourceFile("//main/main.rs")
	main := &graph.Target{
		Label:     label.New(label.NewSourceDir("//main"), "main"),
		Kind:      graph.Executable,
		Sources:   []label.SourceFile{root},
		CrateRoot: root,
		CrateName: "main",
		CrateType: graph.CrateBin,
	}
	if err := graph.OnResolved(main); err != nil {
		fatalf("resolving sample graph: %s", err)
	}
	return &graph.Toolchain{Name: "clang", Targets: []*graph.Target{main}}
}

func sampleLibraryToolchain() *graph.Toolchain {
	libRoot := label.SourceFile("//lib/lib.rs")
	lib := &graph.Target{
		Label:     label.New(label.NewSourceDir("//lib"), "mylib"),
		Kind:      graph.RustLibrary,
		Sources:   []label.SourceFile{libRoot},
		CrateRoot: libRoot,
		CrateName: "mylib",
		CrateType: graph.CrateRlib,
	}
	if err := graph.OnResolved(lib); err != nil {
		fatalf("resolving sample graph: %s", err)
	}

	mainRoot := label.SourceFile("//main/main.rs")
	main := &graph.Target{
		Label:     label.New(label.NewSourceDir("//main"), "main"),
		Kind:      graph.Executable,
		Sources:   []label.SourceFile{mainRoot},
		CrateRoot: mainRoot,
		CrateName: "main",
		CrateType: graph.CrateBin,
		Deps:      []graph.Dep{{Target: lib, Private: true}},
	}
	if err := graph.OnResolved(main); err != nil {
		fatalf("resolving sample graph: %s", err)
	}

	return &graph.Toolchain{Name: "clang", Targets: []*graph.Target{lib, main}}
}

func fatalf(format string, args ...interface{}) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "buildgraphgen: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
