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

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tevino/abool/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/buildgraph/buildgraph/graph"
	"github.com/buildgraph/buildgraph/label"
	"github.com/buildgraph/buildgraph/metadatawalk"
	"github.com/buildgraph/buildgraph/ninja"
)

// BuildSettings configures where manifests land and how much concurrency
// the orchestrator is allowed to use. It is a passive value object: the
// declarative front end that would parse it from a config file is out of
// scope for this repository.
type BuildSettings struct {
	OutDir      string
	Parallelism int // 0 means "use runtime.NumCPU()"
}

func (s BuildSettings) parallelism() int64 {
	if s.Parallelism > 0 {
		return int64(s.Parallelism)
	}
	return int64(runtime.NumCPU())
}

// ToolchainReport summarizes one toolchain's emission.
type ToolchainReport struct {
	Name           string
	ManifestPath   string
	TargetsEmitted int
	Rewritten      bool
}

// WriteReport summarizes a full WriteAll run.
type WriteReport struct {
	RunID          string
	TopLevelPath   string
	Toolchains     []ToolchainReport
	FilesRewritten int
}

// WriteAll resolves nothing itself (targets must already be resolved via
// graph.OnResolved) and emits one manifest per toolchain plus a top-level
// build.ninja that subninja's each of them, per the bounded worker pool and
// process-wide error flag shared-resource policy: a fatal error in any one
// toolchain's emission stops new toolchains from being dispatched, but
// toolchains already in flight run to completion.
func WriteAll(settings BuildSettings, toolchains []*graph.Toolchain) (WriteReport, error) {
	runID := uuid.New().String()
	logger := log.New(os.Stderr).With("run", runID)

	if err := os.MkdirAll(settings.OutDir, 0777); err != nil {
		return WriteReport{}, err
	}

	errFlag := abool.New()
	sem := semaphore.NewWeighted(settings.parallelism())
	g, gctx := errgroup.WithContext(context.Background())

	reports := make([]ToolchainReport, len(toolchains))

	for i, tc := range toolchains {
		i, tc := i, tc

		if errFlag.IsSet() {
			break
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)

			if errFlag.IsSet() {
				return nil
			}

			report, err := writeToolchainManifest(settings, tc, logger)
			if err != nil {
				errFlag.Set()
				return err
			}

			reports[i] = report
			logger.Info("wrote toolchain manifest", "toolchain", tc.Name, "targets", report.TargetsEmitted)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return WriteReport{}, err
	}

	topLevelPath := filepath.Join(settings.OutDir, "build.ninja")
	rewritten, err := writeTopLevelManifest(topLevelPath, toolchains)
	if err != nil {
		return WriteReport{}, err
	}

	depfilePath := topLevelPath + ".d"
	if err := WriteDepFile(depfilePath, topLevelPath, sourcesRead(toolchains)); err != nil {
		return WriteReport{}, err
	}

	generatedFilesRewritten, err := writeGeneratedFiles(settings, toolchains)
	if err != nil {
		return WriteReport{}, err
	}

	filesRewritten := generatedFilesRewritten
	if rewritten {
		filesRewritten++
	}
	for _, r := range reports {
		if r.Rewritten {
			filesRewritten++
		}
	}

	logger.Info("build graph emission complete", "toolchains", len(toolchains), "files_rewritten", filesRewritten)

	return WriteReport{
		RunID:          runID,
		TopLevelPath:   topLevelPath,
		Toolchains:     reports,
		FilesRewritten: filesRewritten,
	}, nil
}

func writeToolchainManifest(settings BuildSettings, tc *graph.Toolchain, logger *log.Logger) (ToolchainReport, error) {
	var buf strings.Builder
	w := ninja.NewWriter(&buf)

	if err := w.Comment(fmt.Sprintf("toolchain %s", tc.Name)); err != nil {
		return ToolchainReport{}, err
	}
	if err := w.BlankLine(); err != nil {
		return ToolchainReport{}, err
	}

	for _, target := range tc.Targets {
		if !target.Resolved {
			return ToolchainReport{}, fmt.Errorf("%s: target was never resolved", target.Label)
		}
		if err := ninja.WriteTarget(target, w); err != nil {
			return ToolchainReport{}, fmt.Errorf("%s: %w", target.Label, err)
		}
		if err := w.BlankLine(); err != nil {
			return ToolchainReport{}, err
		}
	}

	manifestPath := filepath.Join(settings.OutDir, toolchainManifestName(tc.Name))
	rewritten, err := WriteIfChanged(manifestPath, []byte(buf.String()), 0666)
	if err != nil {
		return ToolchainReport{}, err
	}

	return ToolchainReport{
		Name:           tc.Name,
		ManifestPath:   manifestPath,
		TargetsEmitted: len(tc.Targets),
		Rewritten:      rewritten,
	}, nil
}

func writeTopLevelManifest(path string, toolchains []*graph.Toolchain) (bool, error) {
	var buf strings.Builder
	w := ninja.NewWriter(&buf)

	if err := w.Comment("generated top-level manifest, do not edit"); err != nil {
		return false, err
	}
	if err := w.BlankLine(); err != nil {
		return false, err
	}

	for _, tc := range toolchains {
		if err := w.Subninja(toolchainManifestName(tc.Name)); err != nil {
			return false, err
		}
	}

	return WriteIfChanged(path, []byte(buf.String()), 0666)
}

func toolchainManifestName(name string) string {
	return "toolchain." + ninja.ToName(name) + ".ninja"
}

// writeGeneratedFiles materializes every generated_file target's single
// output, unlike every other target kind this package writes, a
// generated_file's content comes from walking the build graph's own
// metadata rather than from compiling anything, so it is produced here at
// generation time rather than deferred to a Ninja rule.
func writeGeneratedFiles(settings BuildSettings, toolchains []*graph.Toolchain) (int, error) {
	rewritten := 0
	for _, tc := range toolchains {
		for _, target := range tc.Targets {
			if target.Kind != graph.GeneratedFile {
				continue
			}

			result, err := metadatawalk.WalkGeneratedFile(target)
			if err != nil {
				return rewritten, fmt.Errorf("%s: %w", target.Label, err)
			}

			lines := make([]string, len(result.Values))
			for i, v := range result.Values {
				lines[i] = v.String()
			}
			data := []byte(strings.Join(lines, "\n"))
			if len(data) > 0 {
				data = append(data, '\n')
			}

			path := filepath.Join(settings.OutDir, target.Output)
			if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
				return rewritten, err
			}
			changed, err := WriteIfChanged(path, data, 0666)
			if err != nil {
				return rewritten, err
			}
			if changed {
				rewritten++
			}
		}
	}
	return rewritten, nil
}

// sourcesRead collects every source and input file the given toolchains'
// targets declare, deduplicated and in first-seen order, for the
// build.ninja.d depfile: these are the files that, if edited, should cause
// whatever regenerated this manifest tree to be re-run.
func sourcesRead(toolchains []*graph.Toolchain) []string {
	seen := make(map[label.SourceFile]bool)
	var out []string
	add := func(f label.SourceFile) {
		if !seen[f] {
			seen[f] = true
			out = append(out, string(f))
		}
	}
	for _, tc := range toolchains {
		for _, target := range tc.Targets {
			for _, s := range target.Sources {
				add(s)
			}
			for _, s := range target.Inputs {
				add(s)
			}
			if target.CrateRoot != "" {
				add(target.CrateRoot)
			}
		}
	}
	return out
}
