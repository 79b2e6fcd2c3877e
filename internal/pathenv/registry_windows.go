//go:build windows

package pathenv

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const envKeyPath = `Environment`

// EnsureUserPath appends dir to the user-scope Path registry value after a
// membership check. It reports whether the value was modified.
func EnsureUserPath(dir string) (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, envKeyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return false, fmt.Errorf("open HKCU\\Environment: %w", err)
	}
	defer key.Close()

	current, _, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return false, fmt.Errorf("read user Path: %w", err)
	}

	if Contains(current, dir) {
		return false, nil
	}

	if err := key.SetExpandStringValue("Path", Append(current, dir)); err != nil {
		return false, fmt.Errorf("write user Path: %w", err)
	}
	return true, nil
}

// RemoveUserPath removes dir from the user-scope Path registry value. It
// reports whether the value was modified.
func RemoveUserPath(dir string) (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, envKeyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return false, fmt.Errorf("open HKCU\\Environment: %w", err)
	}
	defer key.Close()

	current, _, err := key.GetStringValue("Path")
	if err == registry.ErrNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read user Path: %w", err)
	}

	updated, removed := Remove(current, dir)
	if !removed {
		return false, nil
	}

	if err := key.SetExpandStringValue("Path", updated); err != nil {
		return false, fmt.Errorf("write user Path: %w", err)
	}
	return true, nil
}

// UserPathApplied reports whether dir is present in the user-scope Path
// registry value.
func UserPathApplied(dir string) bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, envKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	current, _, err := key.GetStringValue("Path")
	if err != nil {
		return false
	}
	return Contains(current, dir)
}
