package install

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindOneFile(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, exeFileName())
	if err := os.WriteFile(exe, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	art, warnings, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() = %v", err)
	}
	if art.Kind != OneFile || art.Path != exe {
		t.Errorf("Find() = %+v", art)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestFindOneDirFallback(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, AppName)
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bundle, exeFileName()), []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	art, warnings, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() = %v", err)
	}
	if art.Kind != OneDir || art.Path != bundle {
		t.Errorf("Find() = %+v", art)
	}
	// Missing one-file variant warns but does not fail
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", warnings)
	}
}

func TestFindOneFileWinsOverOneDir(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, exeFileName())
	if err := os.WriteFile(exe, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	bundle := filepath.Join(dir, AppName)
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}

	art, _, err := Find(dir)
	if err != nil {
		t.Fatal(err)
	}
	if art.Kind != OneFile {
		t.Errorf("Find() picked %s, want one-file", art.Kind)
	}
}

func TestFindNothing(t *testing.T) {
	dir := t.TempDir()

	art, warnings, err := Find(dir)
	if art != nil {
		t.Errorf("Find() = %+v, want nil", art)
	}
	var noArt *ErrNoArtifact
	if !errors.As(err, &noArt) {
		t.Fatalf("err = %v, want ErrNoArtifact", err)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want one per variant", warnings)
	}
}

func TestFindEmptyOneDirIsNotAnArtifact(t *testing.T) {
	dir := t.TempDir()
	// Bundle dir exists but has no executable inside
	if err := os.MkdirAll(filepath.Join(dir, AppName), 0o755); err != nil {
		t.Fatal(err)
	}

	_, _, err := Find(dir)
	if err == nil {
		t.Fatal("expected error for bundle dir without executable")
	}
}

func TestKindString(t *testing.T) {
	if OneFile.String() != "one-file" || OneDir.String() != "one-dir" {
		t.Errorf("Kind strings = %s, %s", OneFile, OneDir)
	}
}
