//go:build !windows

package pathenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureUserPathWritesManagedBlock(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", "/usr/bin")

	dir := "/home/u/apps/docling-converter"

	added, err := EnsureUserPath(dir)
	if err != nil {
		t.Fatalf("EnsureUserPath() = %v", err)
	}
	if !added {
		t.Fatal("expected profile to be modified")
	}

	data, err := os.ReadFile(filepath.Join(home, ".profile"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, blockBegin) || !strings.Contains(content, blockEnd) {
		t.Errorf("managed block markers missing:\n%s", content)
	}
	if !strings.Contains(content, dir) {
		t.Errorf("install dir missing from block:\n%s", content)
	}

	// Rerun is a no-op
	added, err = EnsureUserPath(dir)
	if err != nil {
		t.Fatalf("EnsureUserPath() rerun: %v", err)
	}
	if added {
		t.Error("rerun modified the profile again")
	}

	if !UserPathApplied(dir) {
		t.Error("UserPathApplied() = false after install")
	}
}

func TestEnsureUserPathSkipsWhenLivePathHasDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := "/opt/docling-converter"
	t.Setenv("PATH", "/usr/bin"+Separator+dir)

	added, err := EnsureUserPath(dir)
	if err != nil {
		t.Fatalf("EnsureUserPath() = %v", err)
	}
	if added {
		t.Error("modified profile although PATH already contains dir")
	}
	if _, err := os.Stat(filepath.Join(home, ".profile")); !os.IsNotExist(err) {
		t.Error("profile created although nothing was needed")
	}
}

func TestEnsureUserPathPreservesExistingContent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", "/usr/bin")

	profile := filepath.Join(home, ".profile")
	existing := "# user stuff\nexport EDITOR=vi\n"
	if err := os.WriteFile(profile, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := EnsureUserPath("/opt/app"); err != nil {
		t.Fatalf("EnsureUserPath() = %v", err)
	}

	data, _ := os.ReadFile(profile)
	if !strings.HasPrefix(string(data), existing) {
		t.Errorf("existing profile content disturbed:\n%s", data)
	}
}

func TestRemoveUserPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", "/usr/bin")

	dir := "/opt/docling-converter"
	if _, err := EnsureUserPath(dir); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveUserPath(dir)
	if err != nil {
		t.Fatalf("RemoveUserPath() = %v", err)
	}
	if !removed {
		t.Fatal("expected block to be removed")
	}

	data, _ := os.ReadFile(filepath.Join(home, ".profile"))
	if strings.Contains(string(data), blockBegin) {
		t.Errorf("block still present:\n%s", data)
	}

	// Second remove is a no-op
	removed, err = RemoveUserPath(dir)
	if err != nil || removed {
		t.Errorf("second RemoveUserPath() = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestRemoveUserPathNoProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", "/usr/bin")

	removed, err := RemoveUserPath("/opt/app")
	if err != nil || removed {
		t.Errorf("RemoveUserPath() = (%v, %v), want (false, nil)", removed, err)
	}
}
