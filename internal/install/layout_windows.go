//go:build windows

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
)

func exeFileName() string {
	return AppName + ".exe"
}

// DefaultInstallDir is %LOCALAPPDATA%\Programs\DoclingConverter, the
// conventional per-user application location.
func DefaultInstallDir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve LOCALAPPDATA: %w", err)
		}
		base = dir
	}
	return filepath.Join(base, "Programs", "DoclingConverter"), nil
}

// writeWrapper drops a batch launcher at the top of the install dir so the
// PATH entry exposes the nested one-dir executable.
func writeWrapper(installDir, exe string) (string, error) {
	wrapper := filepath.Join(installDir, AppName+".cmd")
	content := fmt.Sprintf("@echo off\r\n\"%s\" %%*\r\n", exe)
	if err := fsutil.WriteFileAtomic(wrapper, []byte(content), 0o755); err != nil {
		return "", err
	}
	return wrapper, nil
}
