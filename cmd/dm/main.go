package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/demo112/docling-mine/internal/config"
	"github.com/demo112/docling-mine/internal/manifest"
)

var (
	jsonOutput   bool
	manifestPath string
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Manifest database path (default: user config dir)")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "dm",
	Short: "dm - Docling Converter packaging and install tool",
	Long: `dm bundles the Docling Converter application into standalone executables
and manages its per-user installation: install directory, launcher shortcut,
PATH entry, uninstall script and install manifest.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("dm version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Apply viper configuration if flags weren't explicitly set
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("manifest") && manifestPath == "" {
			manifestPath = config.GetString("manifest")
		}
	},
}

// openManifest opens the install registry honoring --manifest. Callers own
// the returned store.
func openManifest() (*manifest.Store, error) {
	path := manifestPath
	if path == "" {
		p, err := manifest.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return manifest.New(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
