// Package debug provides diagnostic logging for dm.
//
// Every line goes to a small rolling install log under the user cache
// directory so failed installs can be reconstructed after the fact. Lines
// are mirrored to stderr when DM_DEBUG is set.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger *log.Logger
)

func initLogger() {
	var sinks []io.Writer

	if dir, err := os.UserCacheDir(); err == nil {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   filepath.Join(dir, "docling-mine", "dm.log"),
			MaxSize:    5, // megabytes
			MaxBackups: 2,
			MaxAge:     30, // days
		})
	}
	if Enabled() {
		sinks = append(sinks, os.Stderr)
	}

	if len(sinks) == 0 {
		logger = log.New(io.Discard, "", 0)
		return
	}
	logger = log.New(io.MultiWriter(sinks...), "dm: ", log.LstdFlags)
}

// Enabled reports whether verbose debug output to stderr is on.
func Enabled() bool {
	return os.Getenv("DM_DEBUG") != ""
}

// Logf writes a formatted line to the install log (and stderr when DM_DEBUG
// is set).
func Logf(format string, args ...interface{}) {
	once.Do(initLogger)
	logger.Output(2, fmt.Sprintf(format, args...)) // nolint:errcheck // best effort
}

// LogPath returns the install log location, or "" if the user cache
// directory could not be resolved.
func LogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docling-mine", "dm.log")
}
