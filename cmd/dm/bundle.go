package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/bundle"
	"github.com/demo112/docling-mine/internal/config"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Freeze the converter into a standalone executable",
	Long: `Run the external freeze tool against the bundle descriptor.

The descriptor (bundle.yaml by default) lists the entry script, hidden
modules and data files to embed. dm stages the data files, invokes the
bundler with the assembled arguments and verifies that the expected dist
artifact exists afterwards.

With --watch, dm stays running and rebuilds whenever the descriptor or a
data file changes.`,
	Run: func(cmd *cobra.Command, _ []string) {
		specPath, _ := cmd.Flags().GetString("spec")
		outDir, _ := cmd.Flags().GetString("out")
		watch, _ := cmd.Flags().GetBool("watch")

		if !cmd.Flags().Changed("spec") {
			specPath = config.GetString("spec")
		}

		spec, err := bundle.Load(specPath)
		if err != nil {
			fatalf("%v", err)
		}
		if outDir != "" {
			spec.Out = outDir
		}

		runner, err := bundle.NewExecRunner(spec.Bundler.Command, spec.BaseDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Hint: install the bundler or set bundler.command in %s\n", specPath)
			os.Exit(1)
		}

		out := cmd.OutOrStdout()
		runBuild := func() bool {
			res, err := bundle.Build(context.Background(), spec, runner, out)
			if err != nil {
				color.Red("✗ bundle failed: %v\n", err)
				return false
			}
			if res.Skipped > 0 {
				color.Yellow("⚠ %d data file(s) missing, skipped\n", res.Skipped)
			}
			if jsonOutput {
				outputJSON(res)
			} else {
				fmt.Fprintf(out, "%s artifact: %s\n", color.GreenString("✓"), res.Artifact)
			}
			return true
		}

		ok := runBuild()

		if !watch {
			if !ok {
				os.Exit(1)
			}
			return
		}

		fmt.Fprintf(out, "watching %s for changes (Ctrl+C to stop)\n", specPath)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = bundle.Watch(ctx, spec, specPath, func() { runBuild() })
		if err != nil && ctx.Err() == nil {
			fatalf("watch: %v", err)
		}
	},
}

func init() {
	bundleCmd.Flags().String("spec", "bundle.yaml", "Bundle descriptor path")
	bundleCmd.Flags().String("out", "", "Override the descriptor's dist directory")
	bundleCmd.Flags().Bool("watch", false, "Rebuild on descriptor or data file changes")
	rootCmd.AddCommand(bundleCmd)
}
