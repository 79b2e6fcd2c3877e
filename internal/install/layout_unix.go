//go:build !windows

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

func exeFileName() string {
	return AppName
}

// DefaultInstallDir is ~/.local/opt/docling-converter, a user-writable
// location that needs no elevation.
func DefaultInstallDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "opt", AppName), nil
}

// writeWrapper drops a launcher shell script at the top of the install dir
// so the PATH entry exposes the nested one-dir executable.
func writeWrapper(installDir, exe string) (string, error) {
	wrapper := filepath.Join(installDir, AppName)
	content := fmt.Sprintf("#!/bin/sh\nexec \"%s\" \"$@\"\n", exe)
	if err := fsutil.WriteFileAtomic(wrapper, []byte(content), 0o755); err != nil {
		return "", err
	}
	return wrapper, nil
}
