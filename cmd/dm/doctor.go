package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/fsutil"
	"github.com/demo112/docling-mine/internal/install"
	"github.com/demo112/docling-mine/internal/manifest"
	"github.com/demo112/docling-mine/internal/pathenv"
	"github.com/demo112/docling-mine/internal/smoke"
)

// Status constants for doctor checks
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

type doctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // statusOK, statusWarning, or statusError
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Fix     string `json:"fix,omitempty"`
}

type doctorResult struct {
	Checks     []doctorCheck `json:"checks"`
	OverallOK  bool          `json:"overall_ok"`
	CLIVersion string        `json:"cli_version"`
}

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the Docling Converter installation health",
	Long: `Sanity check the recorded installation.

This command checks:
  - The manifest records an installation
  - The install directory and executable exist
  - The shortcut is in place
  - The install dir is on the user PATH (when the installer added it)
  - The uninstall script exists and matches the installed version
  - The install receipt agrees with the manifest
  - The executable answers '--version' with exit code 0

Examples:
  dm doctor          # Check the installation
  dm doctor --json   # Machine-readable output
  dm doctor --fix    # Re-create shortcut, PATH entry, uninstall script`,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openManifest()
		if err != nil {
			fatalf("failed to open manifest: %v", err)
		}
		defer func() { _ = store.Close() }()

		result := runDiagnostics(store)

		if doctorFix {
			applyFixes(store, result)
			// Re-run diagnostics to show results
			result = runDiagnostics(store)
		}

		if jsonOutput {
			outputJSON(result)
		} else {
			printDiagnostics(result)
		}

		if !result.OverallOK {
			os.Exit(1)
		}
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Automatically fix issues where possible")
	rootCmd.AddCommand(doctorCmd)
}

func runDiagnostics(store *manifest.Store) doctorResult {
	result := doctorResult{CLIVersion: Version}
	ctx := context.Background()

	rec, err := store.Get(ctx, install.AppName)
	switch {
	case err != nil:
		result.Checks = append(result.Checks, doctorCheck{
			Name:    "Manifest",
			Status:  statusError,
			Message: fmt.Sprintf("unreadable: %v", err),
		})
	case rec == nil:
		result.Checks = append(result.Checks, doctorCheck{
			Name:    "Manifest",
			Status:  statusError,
			Message: "no installation recorded",
			Fix:     "run 'dm install'",
		})
	default:
		result.Checks = append(result.Checks, doctorCheck{
			Name:    "Manifest",
			Status:  statusOK,
			Message: fmt.Sprintf("%s %s installed at %s", install.AppName, orUnknown(rec.Version), rec.InstallDir),
		})
		result.Checks = append(result.Checks, installChecks(ctx, rec)...)
	}

	result.OverallOK = true
	for _, c := range result.Checks {
		if c.Status == statusError {
			result.OverallOK = false
		}
	}
	return result
}

func installChecks(ctx context.Context, rec *manifest.Record) []doctorCheck {
	var checks []doctorCheck

	if fsutil.DirExists(rec.InstallDir) {
		checks = append(checks, doctorCheck{Name: "Install directory", Status: statusOK, Message: "present"})
	} else {
		checks = append(checks, doctorCheck{
			Name:    "Install directory",
			Status:  statusError,
			Message: fmt.Sprintf("%s is missing", rec.InstallDir),
			Fix:     "run 'dm install' to reinstall",
		})
		return checks // everything below lives inside the install dir
	}

	if fsutil.FileExists(rec.Executable) {
		checks = append(checks, doctorCheck{Name: "Executable", Status: statusOK, Message: "present"})
	} else {
		checks = append(checks, doctorCheck{
			Name:    "Executable",
			Status:  statusError,
			Message: fmt.Sprintf("%s is missing", rec.Executable),
			Fix:     "run 'dm install' to reinstall",
		})
	}

	if missing := missingFiles(rec); len(missing) > 0 {
		checks = append(checks, doctorCheck{
			Name:    "Recorded files",
			Status:  statusWarning,
			Message: fmt.Sprintf("%d of %d recorded file(s) missing", len(missing), len(rec.Files)),
			Detail:  strings.Join(missing, ", "),
			Fix:     "run 'dm install' to refresh the files",
		})
	} else {
		checks = append(checks, doctorCheck{Name: "Recorded files", Status: statusOK, Message: "all present"})
	}

	if rec.Shortcut != "" {
		if fsutil.FileExists(rec.Shortcut) || isSymlink(rec.Shortcut) {
			checks = append(checks, doctorCheck{Name: "Shortcut", Status: statusOK, Message: "present"})
		} else {
			checks = append(checks, doctorCheck{
				Name:    "Shortcut",
				Status:  statusWarning,
				Message: fmt.Sprintf("%s is missing", rec.Shortcut),
				Fix:     "run 'dm doctor --fix'",
			})
		}
	}

	if rec.PathAdded {
		if pathenv.UserPathApplied(rec.InstallDir) {
			checks = append(checks, doctorCheck{Name: "PATH", Status: statusOK, Message: "install dir is on the user PATH"})
		} else {
			checks = append(checks, doctorCheck{
				Name:    "PATH",
				Status:  statusWarning,
				Message: "install dir missing from the user PATH",
				Fix:     "run 'dm doctor --fix'",
			})
		}
	}

	script := filepath.Join(rec.InstallDir, install.UninstallScriptName())
	switch v, err := install.UninstallScriptVersion(script); {
	case err != nil:
		checks = append(checks, doctorCheck{
			Name:    "Uninstall script",
			Status:  statusWarning,
			Message: "missing",
			Fix:     "run 'dm doctor --fix'",
		})
	case rec.Version != "" && v != rec.Version:
		checks = append(checks, doctorCheck{
			Name:    "Uninstall script",
			Status:  statusWarning,
			Message: fmt.Sprintf("version marker %s does not match installed %s", orUnknown(v), rec.Version),
			Fix:     "run 'dm doctor --fix'",
		})
	default:
		checks = append(checks, doctorCheck{Name: "Uninstall script", Status: statusOK, Message: "present"})
	}

	receipt, err := install.LoadReceipt(rec.InstallDir)
	switch {
	case err != nil || receipt == nil:
		checks = append(checks, doctorCheck{
			Name:    "Receipt",
			Status:  statusWarning,
			Message: "missing or unreadable",
			Fix:     "run 'dm doctor --fix'",
		})
	case receipt.Version != rec.Version || receipt.Executable != rec.Executable:
		checks = append(checks, doctorCheck{
			Name:    "Receipt",
			Status:  statusWarning,
			Message: "disagrees with the manifest",
			Fix:     "run 'dm doctor --fix'",
		})
	default:
		checks = append(checks, doctorCheck{Name: "Receipt", Status: statusOK, Message: "matches manifest"})
	}

	if fsutil.FileExists(rec.Executable) {
		if line, err := smoke.Run(ctx, rec.Executable); err != nil {
			checks = append(checks, doctorCheck{
				Name:    "Smoke test",
				Status:  statusError,
				Message: fmt.Sprintf("--version failed: %v", err),
			})
		} else {
			checks = append(checks, doctorCheck{Name: "Smoke test", Status: statusOK, Message: line})
		}
	}

	return checks
}

func applyFixes(store *manifest.Store, result doctorResult) {
	ctx := context.Background()
	rec, err := store.Get(ctx, install.AppName)
	if err != nil || rec == nil {
		return // nothing fixable without a record
	}

	changed := false
	for _, check := range result.Checks {
		if check.Status != statusWarning && check.Status != statusError {
			continue
		}
		switch check.Name {
		case "Shortcut":
			fmt.Println("Re-creating shortcut...")
			if path, err := install.CreateShortcut(rec.Executable); err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			} else {
				rec.Shortcut = path
				changed = true
				fmt.Printf("  ✓ %s\n", path)
			}
		case "PATH":
			fmt.Println("Re-adding install dir to the user PATH...")
			if _, err := pathenv.EnsureUserPath(rec.InstallDir); err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			} else {
				rec.PathAdded = true
				changed = true
				fmt.Printf("  ✓ %s\n", rec.InstallDir)
			}
		case "Uninstall script":
			fmt.Println("Rewriting uninstall script...")
			if path, err := install.WriteUninstallScript(rec.InstallDir, rec.Shortcut, rec.Version); err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			} else {
				fmt.Printf("  ✓ %s\n", path)
			}
		case "Receipt":
			fmt.Println("Rewriting receipt...")
			if path, err := install.WriteReceipt(rec.InstallDir, rec); err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			} else {
				fmt.Printf("  ✓ %s\n", path)
			}
		}
	}

	if changed {
		if err := store.RecordInstall(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "  Error updating manifest: %v\n", err)
		}
	}
}

func printDiagnostics(result doctorResult) {
	fmt.Println("\nDiagnostics")

	for i, check := range result.Checks {
		prefix := "├"
		if i == len(result.Checks)-1 {
			prefix = "└"
		}

		var statusIcon string
		switch check.Status {
		case statusOK:
			statusIcon = ""
		case statusWarning:
			statusIcon = color.YellowString(" ⚠")
		case statusError:
			statusIcon = color.RedString(" ✗")
		}

		fmt.Printf(" %s %s: %s%s\n", prefix, check.Name, check.Message, statusIcon)

		if check.Detail != "" {
			detailPrefix := "│"
			if i == len(result.Checks)-1 {
				detailPrefix = " "
			}
			fmt.Printf(" %s   %s\n", detailPrefix, color.New(color.Faint).Sprint(check.Detail))
		}
	}

	fmt.Println()

	hasIssues := false
	for _, check := range result.Checks {
		if check.Status != statusOK && check.Fix != "" {
			hasIssues = true

			switch check.Status {
			case statusWarning:
				color.Yellow("⚠ Warning: %s: %s\n", check.Name, check.Message)
			case statusError:
				color.Red("✗ Error: %s: %s\n", check.Name, check.Message)
			}

			fmt.Printf("  Fix: %s\n\n", check.Fix)
		}
	}

	if !hasIssues {
		color.Green("✓ All checks passed\n")
	}
}

// missingFiles returns the recorded install files that no longer exist.
// Shortcut symlinks do not count; they have their own check.
func missingFiles(rec *manifest.Record) []string {
	var missing []string
	for _, f := range rec.Files {
		if !fsutil.FileExists(f) && !isSymlink(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
