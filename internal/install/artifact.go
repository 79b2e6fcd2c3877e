package install

import (
	"fmt"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// Kind distinguishes the two artifact variants the bundler can produce.
type Kind int

const (
	// OneFile is a single self-extracting executable.
	OneFile Kind = iota
	// OneDir is a directory bundle containing the executable and payload.
	OneDir
)

func (k Kind) String() string {
	switch k {
	case OneFile:
		return "one-file"
	case OneDir:
		return "one-dir"
	default:
		return "unknown"
	}
}

// Artifact is a built application found in the source directory.
type Artifact struct {
	Kind Kind
	Path string // executable for OneFile, bundle directory for OneDir
}

// ErrNoArtifact means neither variant exists in the source directory.
type ErrNoArtifact struct {
	SourceDir string
}

func (e *ErrNoArtifact) Error() string {
	return fmt.Sprintf("no built artifact found in %s (expected %s or %s/)",
		e.SourceDir, exeFileName(), AppName)
}

// Find locates a built artifact under sourceDir. The one-file executable
// wins over the one-dir bundle when both exist. Each missing variant adds a
// warning; only both missing is an error.
func Find(sourceDir string) (*Artifact, []string, error) {
	var warnings []string

	onefile := filepath.Join(sourceDir, exeFileName())
	if fsutil.FileExists(onefile) {
		return &Artifact{Kind: OneFile, Path: onefile}, nil, nil
	}
	warnings = append(warnings, fmt.Sprintf("one-file executable %s not found", onefile))

	onedir := filepath.Join(sourceDir, AppName)
	if fsutil.DirExists(onedir) && fsutil.FileExists(filepath.Join(onedir, exeFileName())) {
		return &Artifact{Kind: OneDir, Path: onedir}, warnings, nil
	}
	warnings = append(warnings, fmt.Sprintf("one-dir bundle %s%c not found", onedir, filepath.Separator))

	return nil, warnings, &ErrNoArtifact{SourceDir: sourceDir}
}
