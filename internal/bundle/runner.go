package bundle

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/demo112/docling-mine/internal/debug"
)

// Runner executes the external freeze tool. Tests inject a fake; the real
// CLI uses ExecRunner.
type Runner interface {
	// Name identifies the tool for messages.
	Name() string
	// Run invokes the tool with args, streaming its combined output to out.
	Run(ctx context.Context, args []string, out io.Writer) error
}

// ExecRunner runs the bundler as a subprocess.
type ExecRunner struct {
	command string
	dir     string
}

// NewExecRunner resolves command on PATH and returns a runner executing it
// with dir as working directory. A bundler that is not installed fails here
// rather than mid-build.
func NewExecRunner(command, dir string) (*ExecRunner, error) {
	resolved, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("bundler %q not found on PATH: %w", command, err)
	}
	return &ExecRunner{command: resolved, dir: dir}, nil
}

// Name returns the resolved bundler executable path.
func (r *ExecRunner) Name() string {
	return r.command
}

// Run executes the bundler and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, args []string, out io.Writer) error {
	debug.Logf("running bundler: %s %v", r.command, args)
	cmd := exec.CommandContext(ctx, r.command, args...) // #nosec G204 - command resolved from descriptor
	cmd.Dir = r.dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bundler %s: %w", r.command, err)
	}
	return nil
}
