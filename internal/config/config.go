// Package config wraps viper for dm configuration.
//
// Precedence, highest first: command-line flags (applied at the cmd layer),
// DM_* environment variables, the user config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "DM"

// Initialize loads the user config file (if present) and wires up DM_*
// environment variables. Safe to call more than once.
func Initialize() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	dir, err := os.UserConfigDir()
	if err != nil {
		// No home directory; env vars and defaults still work
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(dir, "docling-mine"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("source", "dist")
	viper.SetDefault("spec", "bundle.yaml")
	viper.SetDefault("json", false)
	viper.SetDefault("no-path", false)
	viper.SetDefault("no-shortcut", false)
	viper.SetDefault("no-smoke", false)
}

// Dir returns the dm config directory, or "" if the user config directory
// cannot be resolved.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docling-mine")
}

// GetString returns a config value as string
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a config value as bool
func GetBool(key string) bool {
	return viper.GetBool(key)
}
