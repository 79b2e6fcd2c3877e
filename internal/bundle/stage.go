package bundle

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// StagedFile is a data entry that was found on disk and will be embedded.
type StagedFile struct {
	Path string // absolute source location
	Dest string // destination relative to the frozen app root
}

// Result summarizes one bundling run.
type Result struct {
	Staged   int    // data entries handed to the bundler
	Skipped  int    // data entries missing on disk, warned and skipped
	Artifact string // expected output location, verified to exist
}

// Stage resolves the descriptor's data entries against the filesystem.
// Entries whose source exists are returned for embedding; missing ones get
// a warning on w and are skipped. Missing data never fails the build.
func Stage(spec *Spec, w io.Writer) ([]StagedFile, int) {
	var staged []StagedFile
	skipped := 0
	for _, d := range spec.Data {
		src := spec.Resolve(d.Src)
		if !fsutil.FileExists(src) && !fsutil.DirExists(src) {
			fmt.Fprintf(w, "skipped: data file %s (not found)\n", d.Src)
			skipped++
			continue
		}
		dest := d.Dest
		if dest == "" {
			dest = "."
		}
		staged = append(staged, StagedFile{Path: src, Dest: dest})
	}
	return staged, skipped
}

// Build runs one full bundling pass: stage data, invoke the freeze tool,
// verify the artifact. Bundler output streams to w.
func Build(ctx context.Context, spec *Spec, r Runner, w io.Writer) (*Result, error) {
	staged, skipped := Stage(spec, w)

	// A missing icon is dropped like a missing data entry; the bundler
	// would otherwise abort on it
	run := *spec
	if run.App.Icon != "" && !fsutil.FileExists(run.Resolve(run.App.Icon)) {
		fmt.Fprintf(w, "skipped: icon %s (not found)\n", run.App.Icon)
		run.App.Icon = ""
	}

	if err := fsutil.EnsureDir(run.OutDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create dist directory: %w", err)
	}

	if err := r.Run(ctx, run.Args(staged), w); err != nil {
		return nil, err
	}

	artifact := spec.ArtifactPath()
	if !fsutil.FileExists(artifact) {
		return nil, fmt.Errorf("bundler finished but %s is missing", filepath.Base(artifact))
	}

	return &Result{Staged: len(staged), Skipped: skipped, Artifact: artifact}, nil
}
