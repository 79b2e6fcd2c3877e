package install

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/demo112/docling-mine/internal/fsutil"
)

//go:embed templates/*
var templatesFS embed.FS

const uninstallVersionPrefix = "dm-uninstall-version: "

// UninstallScriptName returns the platform uninstall script filename.
func UninstallScriptName() string {
	if runtime.GOOS == "windows" {
		return "uninstall.cmd"
	}
	return "uninstall.sh"
}

// WriteUninstallScript renders the embedded uninstall template into the
// install dir and returns its path. The script removes the directory and
// shortcut the installer created, plus the PATH entry, and needs nothing
// but a shell.
func WriteUninstallScript(installDir, shortcut, version string) (string, error) {
	name := UninstallScriptName()
	raw, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("read embedded template %s: %w", name, err)
	}

	if version == "" {
		version = "unknown"
	}
	content := strings.NewReplacer(
		"{{VERSION}}", version,
		"{{INSTALL_DIR}}", installDir,
		"{{SHORTCUT}}", shortcut,
	).Replace(string(raw))

	path := filepath.Join(installDir, name)
	if err := fsutil.WriteFileAtomic(path, []byte(content), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// UninstallScriptVersion extracts the version marker from a generated
// script, or "" when the file predates markers.
func UninstallScriptVersion(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path inside the install dir
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for lines := 0; scanner.Scan() && lines < 5; lines++ {
		line := scanner.Text()
		if i := strings.Index(line, uninstallVersionPrefix); i >= 0 {
			return strings.TrimSpace(line[i+len(uninstallVersionPrefix):]), nil
		}
	}
	return "", scanner.Err()
}
