package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/fsutil"
)

//go:embed templates/sample.md
var sampleFS embed.FS

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the sample document used to test the converter UI",
	Long: `Write the embedded sample markdown document to disk.

The sample exercises headings, tables, lists, code blocks and images so a
conversion run over it makes rendering problems visible at a glance.`,
	Run: func(cmd *cobra.Command, _ []string) {
		out, _ := cmd.Flags().GetString("out")
		force, _ := cmd.Flags().GetBool("force")

		if fsutil.FileExists(out) && !force {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", out)
			fmt.Fprintf(os.Stderr, "Hint: pass --force to overwrite it\n")
			os.Exit(1)
		}

		data, err := sampleFS.ReadFile("templates/sample.md")
		if err != nil {
			fatalf("failed to read embedded sample: %v", err)
		}
		if err := fsutil.WriteFileAtomic(out, data, 0o644); err != nil {
			fatalf("failed to write %s: %v", out, err)
		}

		if jsonOutput {
			outputJSON(map[string]string{"path": out})
			return
		}
		fmt.Printf("%s wrote %s\n", color.GreenString("✓"), out)
	},
}

func init() {
	sampleCmd.Flags().String("out", "sample.md", "Output path")
	sampleCmd.Flags().Bool("force", false, "Overwrite an existing file")
	rootCmd.AddCommand(sampleCmd)
}
