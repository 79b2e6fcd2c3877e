// Package smoke runs the post-install sanity check: invoke the installed
// executable with --version and require a clean exit.
package smoke

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/demo112/docling-mine/internal/debug"
)

// DefaultTimeout bounds the version probe. A frozen one-file executable
// unpacks itself on first run, so this is generous.
const DefaultTimeout = 30 * time.Second

// Run executes exe with --version and returns the first line of its
// output. Any non-zero exit, or a timeout, is an error.
func Run(ctx context.Context, exe string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe, "--version") // #nosec G204 - exe is the file we just installed
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("version check timed out after %s", DefaultTimeout)
	}
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", exe, err)
	}

	line := firstLine(string(out))
	debug.Logf("smoke test passed: %s", line)
	return line, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
