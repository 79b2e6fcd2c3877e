package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// outputJSON outputs data as pretty-printed JSON
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// printWarnings renders non-fatal problems the way the installer scripts
// did: yellow, one per line, execution continues.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		color.Yellow("⚠ Warning: %s\n", w)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
