//go:build !windows

package pathenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/demo112/docling-mine/internal/fsutil"
)

// Managed block markers. Everything between them belongs to dm and is
// rewritten wholesale; user edits inside the block do not survive.
const (
	blockBegin = "# >>> docling-mine PATH >>>"
	blockEnd   = "# <<< docling-mine PATH <<<"
)

// ProfilePath returns the shell profile dm manages a PATH block in.
func ProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".profile"), nil
}

// EnsureUserPath makes dir part of the user PATH for future shells by
// appending a managed export block to the profile. It reports whether the
// profile was modified: a live PATH that already contains dir, or an
// existing block naming it, is left alone.
func EnsureUserPath(dir string) (bool, error) {
	if Contains(os.Getenv("PATH"), dir) {
		return false, nil
	}

	profile, err := ProfilePath()
	if err != nil {
		return false, err
	}

	content := ""
	if data, err := os.ReadFile(profile); err == nil { // #nosec G304 - user profile
		content = string(data)
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("read profile: %w", err)
	}

	block := managedBlock(dir)
	if existing, ok := extractBlock(content); ok {
		if existing == block {
			return false, nil
		}
		content = removeBlock(content)
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += block

	if err := fsutil.WriteFileAtomic(profile, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("update profile: %w", err)
	}
	return true, nil
}

// RemoveUserPath deletes the managed block from the profile, if present.
func RemoveUserPath(dir string) (bool, error) {
	_ = dir // the whole managed block goes, whichever dir it names

	profile, err := ProfilePath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(profile) // #nosec G304 - user profile
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read profile: %w", err)
	}

	content := string(data)
	if _, ok := extractBlock(content); !ok {
		return false, nil
	}

	if err := fsutil.WriteFileAtomic(profile, []byte(removeBlock(content)), 0o644); err != nil {
		return false, fmt.Errorf("update profile: %w", err)
	}
	return true, nil
}

// UserPathApplied reports whether dir is reachable: either on the live PATH
// or named by the managed profile block.
func UserPathApplied(dir string) bool {
	if Contains(os.Getenv("PATH"), dir) {
		return true
	}
	profile, err := ProfilePath()
	if err != nil {
		return false
	}
	data, err := os.ReadFile(profile) // #nosec G304 - user profile
	if err != nil {
		return false
	}
	block, ok := extractBlock(string(data))
	return ok && strings.Contains(block, dir)
}

func managedBlock(dir string) string {
	return blockBegin + "\n" +
		fmt.Sprintf("export PATH=\"$PATH%s%s\"\n", Separator, dir) +
		blockEnd + "\n"
}

// extractBlock returns the managed block (markers included, trailing newline
// included) and whether one was found.
func extractBlock(content string) (string, bool) {
	start := strings.Index(content, blockBegin)
	if start < 0 {
		return "", false
	}
	end := strings.Index(content[start:], blockEnd)
	if end < 0 {
		// Unterminated block from a bad write; treat everything from the
		// marker on as the block so removal can repair it.
		return content[start:], true
	}
	end = start + end + len(blockEnd)
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return content[start:end], true
}

func removeBlock(content string) string {
	block, ok := extractBlock(content)
	if !ok {
		return content
	}
	return strings.Replace(content, block, "", 1)
}
