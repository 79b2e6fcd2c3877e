// Package install implements the managed installation of the Docling
// Converter application: directory setup, artifact copy, launcher wrapper,
// OS shortcut, user PATH entry, uninstall script and install receipt.
//
// Every step is an idempotent filesystem operation guarded by an existence
// check. Optional steps that fail produce a warning in the outcome and the
// install continues; only a missing artifact aborts.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"

	"github.com/demo112/docling-mine/internal/debug"
	"github.com/demo112/docling-mine/internal/fsutil"
	"github.com/demo112/docling-mine/internal/manifest"
	"github.com/demo112/docling-mine/internal/pathenv"
	"github.com/demo112/docling-mine/internal/smoke"
)

const (
	// AppName is the artifact and install-dir base name.
	AppName = "docling-converter"
	// DisplayName is the human-facing application name used in shortcuts.
	DisplayName = "Docling Converter"

	// bundleSubdir is where a one-dir artifact's payload lands inside the
	// install dir, keeping the top level free for the launcher wrapper.
	bundleSubdir = "app"
)

// Options controls one install run.
type Options struct {
	SourceDir  string // where to look for built artifacts
	InstallDir string // target directory
	Version    string // version being installed, "" when unknown
	AddPath    bool   // append the install dir to the user PATH
	Shortcut   bool   // create the OS shortcut
	Smoke      bool   // run the --version check afterwards
	Force      bool   // allow downgrades over a newer recorded version
}

// Outcome reports what an install run did.
type Outcome struct {
	Record      manifest.Record
	VersionLine string   // first line of `exe --version`, when the smoke test ran
	Warnings    []string // non-fatal problems, already formatted
}

// ErrDowngrade is returned when the manifest records a newer version and
// Force is off.
type ErrDowngrade struct {
	Installed string
	Requested string
}

func (e *ErrDowngrade) Error() string {
	return fmt.Sprintf("version %s is already installed, refusing to downgrade to %s", e.Installed, e.Requested)
}

// Apply performs the install sequence, streaming progress to w and
// recording the result in store.
func Apply(ctx context.Context, store *manifest.Store, opts Options, w io.Writer) (*Outcome, error) {
	out := &Outcome{}

	if err := checkDowngrade(ctx, store, opts); err != nil {
		return nil, err
	}

	// 1. Install directory, idempotent
	if err := fsutil.EnsureDir(opts.InstallDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare install directory: %w", err)
	}
	fmt.Fprintf(w, "install dir: %s\n", opts.InstallDir)

	// 2. Artifact discovery: one-file first, one-dir second
	art, warnings, err := Find(opts.SourceDir)
	out.Warnings = append(out.Warnings, warnings...)
	if err != nil {
		return out, err
	}
	fmt.Fprintf(w, "artifact: %s (%s)\n", art.Path, art.Kind)

	// 3. Copy
	files, exe, err := copyArtifact(art, opts.InstallDir)
	if err != nil {
		return out, fmt.Errorf("copy artifact: %w", err)
	}
	fmt.Fprintf(w, "copied %d file(s)\n", len(files))

	// 4. Launcher wrapper for one-dir installs
	if art.Kind == OneDir {
		wrapper, err := writeWrapper(opts.InstallDir, exe)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("wrapper not created: %v", err))
		} else {
			files = append(files, wrapper)
			fmt.Fprintf(w, "wrapper: %s\n", wrapper)
		}
	}

	// 5. Shortcut
	shortcut := ""
	if opts.Shortcut {
		path, err := CreateShortcut(exe)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("shortcut not created: %v", err))
		} else {
			shortcut = path
			fmt.Fprintf(w, "shortcut: %s\n", path)
		}
	}

	// 6. PATH, membership-checked
	pathAdded := false
	if opts.AddPath {
		added, err := pathenv.EnsureUserPath(opts.InstallDir)
		switch {
		case err != nil:
			out.Warnings = append(out.Warnings, fmt.Sprintf("PATH not updated: %v", err))
		case added:
			pathAdded = true
			fmt.Fprintf(w, "PATH: added %s\n", opts.InstallDir)
		default:
			// Already present without this run writing anything. The entry
			// is ours only if a prior install of the same directory added
			// it; a pre-existing user entry must survive uninstall.
			pathAdded = priorPathAdded(ctx, store, opts.InstallDir)
			fmt.Fprintf(w, "PATH: already contains %s\n", opts.InstallDir)
		}
	}

	// 7. Uninstall script
	script, err := WriteUninstallScript(opts.InstallDir, shortcut, opts.Version)
	if err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("uninstall script not written: %v", err))
	} else {
		files = append(files, script)
		fmt.Fprintf(w, "uninstaller: %s\n", script)
	}

	// 8. Receipt + manifest
	rec := manifest.Record{
		App:        AppName,
		Version:    opts.Version,
		InstallDir: opts.InstallDir,
		Executable: exe,
		Shortcut:   shortcut,
		PathAdded:  pathAdded,
		Files:      files,
	}
	if receipt, err := WriteReceipt(opts.InstallDir, &rec); err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("receipt not written: %v", err))
	} else {
		rec.Files = append(rec.Files, receipt)
	}
	if store != nil {
		if err := store.RecordInstall(ctx, &rec); err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("manifest not updated: %v", err))
		}
	}
	out.Record = rec

	// 9. Smoke test last; a failure is loud but does not undo the install
	if opts.Smoke {
		line, err := smoke.Run(ctx, exe)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("smoke test failed: %v", err))
		} else {
			out.VersionLine = line
			fmt.Fprintf(w, "smoke test: %s\n", line)
		}
	}

	return out, nil
}

// priorPathAdded reports whether an earlier install of dir added the PATH
// entry, so a rerun keeps owning it.
func priorPathAdded(ctx context.Context, store *manifest.Store, dir string) bool {
	if store == nil {
		return false
	}
	rec, err := store.Get(ctx, AppName)
	return err == nil && rec != nil && rec.PathAdded && rec.InstallDir == dir
}

func checkDowngrade(ctx context.Context, store *manifest.Store, opts Options) error {
	if store == nil || opts.Force || opts.Version == "" {
		return nil
	}
	existing, err := store.Get(ctx, AppName)
	if err != nil || existing == nil {
		return nil // no prior install, or unreadable manifest: not a guardable case
	}
	oldV, newV := canonical(existing.Version), canonical(opts.Version)
	if oldV == "" || newV == "" {
		return nil
	}
	if semver.Compare(newV, oldV) < 0 {
		return &ErrDowngrade{Installed: existing.Version, Requested: opts.Version}
	}
	return nil
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// copyArtifact places the artifact in the install dir and returns the
// written files and the installed executable path.
func copyArtifact(art *Artifact, installDir string) ([]string, string, error) {
	switch art.Kind {
	case OneFile:
		dst := filepath.Join(installDir, filepath.Base(art.Path))
		if err := fsutil.CopyFile(art.Path, dst); err != nil {
			return nil, "", err
		}
		if err := os.Chmod(dst, 0o755); err != nil {
			debug.Logf("chmod %s: %v", dst, err)
		}
		return []string{dst}, dst, nil
	case OneDir:
		dst := filepath.Join(installDir, bundleSubdir)
		files, err := fsutil.CopyDir(art.Path, dst)
		if err != nil {
			return nil, "", err
		}
		exe := filepath.Join(dst, exeFileName())
		if err := os.Chmod(exe, 0o755); err != nil {
			debug.Logf("chmod %s: %v", exe, err)
		}
		return files, exe, nil
	default:
		return nil, "", fmt.Errorf("unknown artifact kind %v", art.Kind)
	}
}

// Uninstall reverses a recorded install: shortcut, PATH entry, recorded
// files, install dir, manifest record. Missing pieces produce warnings, not
// failures.
func Uninstall(ctx context.Context, store *manifest.Store, keepPath bool, w io.Writer) ([]string, error) {
	rec, err := store.Get(ctx, AppName)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%s is not installed (no manifest record)", DisplayName)
	}

	var warnings []string

	if rec.Shortcut != "" {
		if err := RemoveShortcut(rec.Shortcut); err != nil && !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("shortcut not removed: %v", err))
		} else {
			fmt.Fprintf(w, "removed shortcut: %s\n", rec.Shortcut)
		}
	}

	if rec.PathAdded && !keepPath {
		removed, err := pathenv.RemoveUserPath(rec.InstallDir)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("PATH entry not removed: %v", err))
		} else if removed {
			fmt.Fprintf(w, "removed PATH entry: %s\n", rec.InstallDir)
		}
	}

	for _, f := range rec.Files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("file not removed: %v", err))
		}
	}

	if fsutil.DirExists(rec.InstallDir) {
		if err := os.RemoveAll(rec.InstallDir); err != nil {
			warnings = append(warnings, fmt.Sprintf("install dir not removed: %v", err))
		} else {
			fmt.Fprintf(w, "removed install dir: %s\n", rec.InstallDir)
		}
	}

	if err := store.Delete(ctx, AppName); err != nil {
		warnings = append(warnings, fmt.Sprintf("manifest record not removed: %v", err))
	}

	return warnings, nil
}
