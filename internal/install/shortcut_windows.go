//go:build windows

package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// ShortcutPath returns the per-user Start Menu .lnk location.
func ShortcutPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return "", fmt.Errorf("APPDATA is not set")
	}
	return filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", DisplayName+".lnk"), nil
}

// CreateShortcut writes a Start Menu .lnk via the WScript.Shell COM object.
// Shelling out to powershell avoids a COM binding for a single call.
func CreateShortcut(exe string) (string, error) {
	path, err := ShortcutPath()
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	script := fmt.Sprintf(
		`$s=(New-Object -ComObject WScript.Shell).CreateShortcut(%q); $s.TargetPath=%q; $s.WorkingDirectory=%q; $s.Save()`,
		path, exe, filepath.Dir(exe))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("create .lnk: %w (%s)", err, out)
	}
	return path, nil
}

// RemoveShortcut deletes the Start Menu .lnk.
func RemoveShortcut(path string) error {
	return os.Remove(path)
}
