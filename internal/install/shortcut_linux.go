//go:build linux

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// ShortcutPath returns the XDG desktop entry location for the converter.
func ShortcutPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "applications", AppName+".desktop"), nil
}

// CreateShortcut writes a desktop entry launching exe and returns its path.
// Rewritten in place on reinstall.
func CreateShortcut(exe string) (string, error) {
	path, err := ShortcutPath()
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Convert documents to Markdown, HTML and JSON
Exec="%s"
Terminal=false
Categories=Office;Utility;
`, DisplayName, exe)

	if err := fsutil.WriteFileAtomic(path, []byte(entry), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveShortcut deletes the desktop entry.
func RemoveShortcut(path string) error {
	return os.Remove(path)
}
