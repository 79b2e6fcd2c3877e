//go:build darwin

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// ShortcutPath returns the ~/Applications symlink location.
func ShortcutPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Applications", DisplayName), nil
}

// CreateShortcut symlinks the executable into ~/Applications. An existing
// link is replaced.
func CreateShortcut(exe string) (string, error) {
	path, err := ShortcutPath()
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("replace existing shortcut: %w", err)
	}
	if err := os.Symlink(exe, path); err != nil {
		return "", fmt.Errorf("create symlink: %w", err)
	}
	return path, nil
}

// RemoveShortcut deletes the ~/Applications symlink.
func RemoveShortcut(path string) error {
	return os.Remove(path)
}
