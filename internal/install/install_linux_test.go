//go:build linux

package install

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/demo112/docling-mine/internal/fsutil"
	"github.com/demo112/docling-mine/internal/manifest"
)

// testEnv isolates HOME, XDG_DATA_HOME and PATH and returns a dist dir
// containing a fake one-file executable that answers --version.
func testEnv(t *testing.T) (home, dist string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("PATH", "/usr/bin:/bin")

	dist = t.TempDir()
	exe := filepath.Join(dist, AppName)
	script := "#!/bin/sh\nif [ \"$1\" = --version ]; then echo 'docling-converter 1.4.0'; exit 0; fi\nexit 2\n"
	if err := os.WriteFile(exe, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return home, dist
}

func newStore(t *testing.T) *manifest.Store {
	t.Helper()
	s, err := manifest.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestApplyFullSequence(t *testing.T) {
	home, dist := testEnv(t)
	store := newStore(t)
	installDir := filepath.Join(home, ".local", "opt", AppName)

	opts := Options{
		SourceDir:  dist,
		InstallDir: installDir,
		Version:    "1.4.0",
		AddPath:    true,
		Shortcut:   true,
		Smoke:      true,
	}

	var out bytes.Buffer
	res, err := Apply(context.Background(), store, opts, &out)
	if err != nil {
		t.Fatalf("Apply() = %v\noutput:\n%s", err, out.String())
	}
	for _, w := range res.Warnings {
		t.Errorf("unexpected warning: %s", w)
	}

	// Executable copied and runnable
	exe := filepath.Join(installDir, AppName)
	if !fsutil.FileExists(exe) {
		t.Fatal("executable not installed")
	}
	if res.VersionLine != "docling-converter 1.4.0" {
		t.Errorf("smoke test line = %q", res.VersionLine)
	}

	// Shortcut written
	if res.Record.Shortcut == "" || !fsutil.FileExists(res.Record.Shortcut) {
		t.Errorf("shortcut missing: %q", res.Record.Shortcut)
	}

	// PATH block in profile
	profile, _ := os.ReadFile(filepath.Join(home, ".profile"))
	if !strings.Contains(string(profile), installDir) {
		t.Errorf("install dir not in profile:\n%s", profile)
	}

	// Uninstall script with version marker
	script := filepath.Join(installDir, UninstallScriptName())
	if v, err := UninstallScriptVersion(script); err != nil || v != "1.4.0" {
		t.Errorf("uninstall script version = (%q, %v)", v, err)
	}

	// Receipt readable
	rec, err := LoadReceipt(installDir)
	if err != nil || rec == nil {
		t.Fatalf("LoadReceipt() = (%+v, %v)", rec, err)
	}
	if rec.Executable != exe {
		t.Errorf("receipt executable = %s", rec.Executable)
	}

	// Manifest record present
	stored, err := store.Get(context.Background(), AppName)
	if err != nil || stored == nil {
		t.Fatalf("manifest record = (%+v, %v)", stored, err)
	}
	if !stored.PathAdded {
		t.Error("manifest does not record the PATH entry")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	home, dist := testEnv(t)
	store := newStore(t)
	installDir := filepath.Join(home, "apps", AppName)

	opts := Options{SourceDir: dist, InstallDir: installDir, Version: "1.4.0", AddPath: true, Shortcut: true}

	if _, err := Apply(context.Background(), store, opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("first Apply() = %v", err)
	}
	res, err := Apply(context.Background(), store, opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("rerun Apply() = %v", err)
	}
	for _, w := range res.Warnings {
		t.Errorf("rerun warning: %s", w)
	}

	// Profile must not stack duplicate blocks
	profile, _ := os.ReadFile(filepath.Join(home, ".profile"))
	if strings.Count(string(profile), installDir) != 1 {
		t.Errorf("duplicate PATH entries after rerun:\n%s", profile)
	}

	// The rerun keeps owning the entry it added the first time
	if !res.Record.PathAdded {
		t.Error("rerun record lost PATH ownership")
	}
	if _, err := Uninstall(context.Background(), store, false, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	profile, _ = os.ReadFile(filepath.Join(home, ".profile"))
	if strings.Contains(string(profile), installDir) {
		t.Errorf("PATH block survives uninstall after rerun:\n%s", profile)
	}
}

func TestApplyLeavesPreexistingPathAlone(t *testing.T) {
	home, dist := testEnv(t)
	store := newStore(t)
	installDir := filepath.Join(home, "apps", AppName)

	// The user already has the install dir on PATH before dm ever ran
	t.Setenv("PATH", "/usr/bin:"+installDir)

	opts := Options{SourceDir: dist, InstallDir: installDir, Version: "1.4.0", AddPath: true}
	res, err := Apply(context.Background(), store, opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if res.Record.PathAdded {
		t.Error("install claims ownership of a pre-existing PATH entry")
	}
	if _, err := os.Stat(filepath.Join(home, ".profile")); !os.IsNotExist(err) {
		t.Error("profile written although PATH already had the dir")
	}

	// Uninstall must not touch what it does not own
	if _, err := Uninstall(context.Background(), store, false, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(home, ".profile")); !os.IsNotExist(err) {
		t.Error("uninstall touched a PATH entry the installer never added")
	}
}

func TestApplyNoArtifact(t *testing.T) {
	home, _ := testEnv(t)
	store := newStore(t)

	opts := Options{
		SourceDir:  t.TempDir(), // empty
		InstallDir: filepath.Join(home, "apps", AppName),
	}

	var out bytes.Buffer
	res, err := Apply(context.Background(), store, opts, &out)
	if err == nil {
		t.Fatal("expected error when no artifact variant exists")
	}
	if res == nil || len(res.Warnings) != 2 {
		t.Errorf("want one warning per missing variant, got %+v", res)
	}
}

func TestApplyOneDirGetsWrapper(t *testing.T) {
	home, _ := testEnv(t)
	store := newStore(t)

	// Build a one-dir artifact only
	dist := t.TempDir()
	bundle := filepath.Join(dist, AppName)
	if err := os.MkdirAll(filepath.Join(bundle, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	exeScript := "#!/bin/sh\necho 'docling-converter 1.4.0'\n"
	if err := os.WriteFile(filepath.Join(bundle, AppName), []byte(exeScript), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bundle, "data", "models.bin"), []byte("m"), 0o644); err != nil {
		t.Fatal(err)
	}

	installDir := filepath.Join(home, "apps", AppName)
	opts := Options{SourceDir: dist, InstallDir: installDir}

	res, err := Apply(context.Background(), store, opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	wrapper := filepath.Join(installDir, AppName)
	if !fsutil.FileExists(wrapper) {
		t.Fatal("wrapper not written for one-dir install")
	}
	if res.Record.Executable != filepath.Join(installDir, bundleSubdir, AppName) {
		t.Errorf("executable = %s", res.Record.Executable)
	}
	if !fsutil.FileExists(filepath.Join(installDir, bundleSubdir, "data", "models.bin")) {
		t.Error("bundle payload not copied")
	}
}

func TestApplyDowngradeGuard(t *testing.T) {
	home, dist := testEnv(t)
	store := newStore(t)
	installDir := filepath.Join(home, "apps", AppName)

	first := Options{SourceDir: dist, InstallDir: installDir, Version: "2.0.0"}
	if _, err := Apply(context.Background(), store, first, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	older := Options{SourceDir: dist, InstallDir: installDir, Version: "1.0.0"}
	_, err := Apply(context.Background(), store, older, &bytes.Buffer{})
	var dg *ErrDowngrade
	if !errors.As(err, &dg) {
		t.Fatalf("err = %v, want ErrDowngrade", err)
	}

	// --force overrides
	older.Force = true
	if _, err := Apply(context.Background(), store, older, &bytes.Buffer{}); err != nil {
		t.Errorf("forced downgrade failed: %v", err)
	}
}

func TestUninstallReversesInstall(t *testing.T) {
	home, dist := testEnv(t)
	store := newStore(t)
	installDir := filepath.Join(home, "apps", AppName)

	opts := Options{SourceDir: dist, InstallDir: installDir, Version: "1.4.0", AddPath: true, Shortcut: true}
	res, err := Apply(context.Background(), store, opts, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	warnings, err := Uninstall(context.Background(), store, false, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Uninstall() = %v", err)
	}
	for _, w := range warnings {
		t.Errorf("unexpected warning: %s", w)
	}

	if fsutil.DirExists(installDir) {
		t.Error("install dir survives uninstall")
	}
	if fsutil.FileExists(res.Record.Shortcut) {
		t.Error("shortcut survives uninstall")
	}
	profile, _ := os.ReadFile(filepath.Join(home, ".profile"))
	if strings.Contains(string(profile), installDir) {
		t.Error("PATH entry survives uninstall")
	}
	if rec, _ := store.Get(context.Background(), AppName); rec != nil {
		t.Error("manifest record survives uninstall")
	}
}

func TestUninstallWithoutInstall(t *testing.T) {
	testEnv(t)
	store := newStore(t)

	if _, err := Uninstall(context.Background(), store, false, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error when nothing is installed")
	}
}
