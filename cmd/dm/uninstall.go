package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/install"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed Docling Converter",
	Long: `Remove everything a previous 'dm install' created, using the install
manifest: the shortcut, the user PATH entry, the recorded files and the
install directory itself.

Pieces that are already gone are skipped with a warning; uninstall keeps
going rather than stopping halfway.`,
	Run: func(cmd *cobra.Command, _ []string) {
		keepPath, _ := cmd.Flags().GetBool("keep-path")

		store, err := openManifest()
		if err != nil {
			fatalf("failed to open manifest: %v", err)
		}
		defer func() { _ = store.Close() }()

		warnings, err := install.Uninstall(context.Background(), store, keepPath, cmd.OutOrStdout())
		printWarnings(warnings)
		if err != nil {
			fatalf("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"removed":  true,
				"warnings": warnings,
			})
			return
		}
		fmt.Printf("%s %s removed.\n", color.GreenString("✓"), install.DisplayName)
	},
}

func init() {
	uninstallCmd.Flags().Bool("keep-path", false, "Leave the user PATH entry in place")
	rootCmd.AddCommand(uninstallCmd)
}
