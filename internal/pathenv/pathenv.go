// Package pathenv manipulates the user-scope PATH variable.
//
// PATH is treated as what it is on every platform: a separator-delimited
// list of opaque directory strings. Membership is checked per entry, with a
// raw substring hit also counting as present so that a rerun never stacks
// duplicate entries behind an equivalent spelling.
package pathenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Separator is the platform PATH list separator.
const Separator = string(os.PathListSeparator)

// Split breaks a PATH value into its entries, dropping empty ones.
func Split(pathVar string) []string {
	var entries []string
	for _, e := range strings.Split(pathVar, Separator) {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Join rebuilds a PATH value from entries.
func Join(entries []string) string {
	return strings.Join(entries, Separator)
}

// Contains reports whether dir is already present in pathVar, either as a
// whole entry or as a raw substring.
func Contains(pathVar, dir string) bool {
	if dir == "" {
		return false
	}
	for _, e := range Split(pathVar) {
		if sameEntry(e, dir) {
			return true
		}
	}
	if runtime.GOOS == "windows" {
		return strings.Contains(strings.ToLower(pathVar), strings.ToLower(dir))
	}
	return strings.Contains(pathVar, dir)
}

// Append returns pathVar with dir appended, or pathVar unchanged when dir is
// already present.
func Append(pathVar, dir string) string {
	if Contains(pathVar, dir) {
		return pathVar
	}
	if pathVar == "" {
		return dir
	}
	return pathVar + Separator + dir
}

// Remove returns pathVar with every entry equal to dir removed, and reports
// whether anything was removed.
func Remove(pathVar, dir string) (string, bool) {
	entries := Split(pathVar)
	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if sameEntry(e, dir) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	return Join(kept), removed
}

// sameEntry compares two PATH entries. Windows paths compare
// case-insensitively.
func sameEntry(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
