package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir, 0o755); err != nil {
		t.Fatalf("EnsureDir() first run: %v", err)
	}
	if !DirExists(dir) {
		t.Fatalf("directory %s not created", dir)
	}

	// Rerun over the existing directory must succeed
	if err := EnsureDir(dir, 0o755); err != nil {
		t.Errorf("EnsureDir() rerun: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exe")
	if err := os.WriteFile(file, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "nope"), false},
	}

	for _, tt := range tests {
		if got := FileExists(tt.path); got != tt.want {
			t.Errorf("FileExists(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCopyFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() = %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "#!/bin/sh\n" {
		t.Errorf("content = %q", data)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	if err := os.MkdirAll(filepath.Join(src, "data", "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := []string{"app", "data/config.yaml", "data/models/weights.bin"}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(src, filepath.FromSlash(f)), []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	written, err := CopyDir(src, dst)
	if err != nil {
		t.Fatalf("CopyDir() = %v", err)
	}
	if len(written) != len(files) {
		t.Errorf("wrote %d files, want %d", len(written), len(files))
	}
	for _, f := range files {
		if !FileExists(filepath.Join(dst, filepath.FromSlash(f))) {
			t.Errorf("missing %s in destination", f)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	if err := WriteFileAtomic(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() = %v", err)
	}

	// Overwrite must replace, not append
	if err := WriteFileAtomic(path, []byte(`{"v":2}`), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{"v":2}` {
		t.Errorf("content = %q", data)
	}
}
