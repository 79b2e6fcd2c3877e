package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/bundle"
	"github.com/demo112/docling-mine/internal/config"
	"github.com/demo112/docling-mine/internal/fsutil"
	"github.com/demo112/docling-mine/internal/install"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Docling Converter from a built artifact",
	Long: `Install the Docling Converter into a per-user directory.

Looks for a built artifact in the source directory (one-file executable
first, one-dir bundle second), copies it, creates a launcher shortcut,
appends the install dir to the user PATH, writes an uninstall script and
an install receipt, then verifies the result with '--version'.

Rerunning install over an existing installation is safe: it refreshes the
files in place and never stacks duplicate PATH entries.`,
	Run: func(cmd *cobra.Command, _ []string) {
		source, _ := cmd.Flags().GetString("source")
		installDir, _ := cmd.Flags().GetString("install-dir")
		appVersion, _ := cmd.Flags().GetString("app-version")
		force, _ := cmd.Flags().GetBool("force")
		noPath, _ := cmd.Flags().GetBool("no-path")
		noShortcut, _ := cmd.Flags().GetBool("no-shortcut")
		noSmoke, _ := cmd.Flags().GetBool("no-smoke")

		// Flags > config > defaults
		if !cmd.Flags().Changed("source") {
			source = config.GetString("source")
		}
		if !cmd.Flags().Changed("no-path") {
			noPath = config.GetBool("no-path")
		}
		if !cmd.Flags().Changed("no-shortcut") {
			noShortcut = config.GetBool("no-shortcut")
		}
		if !cmd.Flags().Changed("no-smoke") {
			noSmoke = config.GetBool("no-smoke")
		}
		if installDir == "" {
			installDir = config.GetString("install-dir")
		}
		if installDir == "" {
			dir, err := install.DefaultInstallDir()
			if err != nil {
				fatalf("failed to resolve install directory: %v", err)
			}
			installDir = dir
		}

		// An unset version falls back to the bundle descriptor next to the
		// artifacts, when there is one
		if appVersion == "" {
			if spec := descriptorVersion(); spec != "" {
				appVersion = spec
			}
		}

		store, err := openManifest()
		if err != nil {
			fatalf("failed to open manifest: %v", err)
		}
		defer func() { _ = store.Close() }()

		opts := install.Options{
			SourceDir:  source,
			InstallDir: installDir,
			Version:    appVersion,
			AddPath:    !noPath,
			Shortcut:   !noShortcut,
			Smoke:      !noSmoke,
			Force:      force,
		}

		out := cmd.OutOrStdout()
		res, err := install.Apply(context.Background(), store, opts, out)
		if res != nil {
			printWarnings(res.Warnings)
		}
		if err != nil {
			var dg *install.ErrDowngrade
			if errors.As(err, &dg) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Hint: pass --force to install %s anyway\n", dg.Requested)
				os.Exit(1)
			}
			// Nothing installable found, or a copy failed
			fatalf("%v", err)
		}

		if jsonOutput {
			outputJSON(res)
			return
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s %s installed successfully!\n\n", green("✓"), install.DisplayName)
		fmt.Printf("  Location:   %s\n", cyan(installDir))
		fmt.Printf("  Executable: %s\n", cyan(res.Record.Executable))
		if res.Record.Shortcut != "" {
			fmt.Printf("  Shortcut:   %s\n", cyan(res.Record.Shortcut))
		}
		if res.VersionLine != "" {
			fmt.Printf("  Version:    %s\n", cyan(res.VersionLine))
		}
		fmt.Printf("\nRun %s to remove it again.\n\n", cyan("dm uninstall"))
	},
}

// descriptorVersion reads app.version from the default bundle descriptor,
// returning "" when the file is absent or unreadable.
func descriptorVersion() string {
	specPath := config.GetString("spec")
	if !fsutil.FileExists(specPath) {
		return ""
	}
	spec, err := bundle.Load(specPath)
	if err != nil {
		return ""
	}
	return spec.App.Version
}

func init() {
	installCmd.Flags().String("source", "dist", "Directory containing built artifacts")
	installCmd.Flags().String("install-dir", "", "Target directory (default: per-user application dir)")
	installCmd.Flags().String("app-version", "", "Version being installed (default: from bundle descriptor)")
	installCmd.Flags().Bool("force", false, "Allow installing over a newer recorded version")
	installCmd.Flags().Bool("no-path", false, "Skip the user PATH update")
	installCmd.Flags().Bool("no-shortcut", false, "Skip shortcut creation")
	installCmd.Flags().Bool("no-smoke", false, "Skip the post-install --version check")
	rootCmd.AddCommand(installCmd)
}
