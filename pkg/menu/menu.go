// Package menu patches the text-based application menu files so they
// carry a hibernate entry. Menu files list one entry per line in the
// form "Label: command"; lines starting with # are comments.
package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands the configured glob patterns into menu file paths.
func Discover(patterns []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(pattern)
		matches, err := doublestar.Glob(os.DirFS(base), rest)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
		}
	}
	return out, nil
}

// entryLine renders a menu entry row.
func entryLine(entry, command string) string {
	return entry + ": " + command
}

// HasEntry reports whether the menu file carries the entry with the
// expected command.
func HasEntry(path, entry, command string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == entryLine(entry, command) {
			return true, nil
		}
	}
	return false, nil
}

// EnsureEntry adds or updates the entry in the menu file. A new entry
// lands before the first Quit/Exit entry so it does not become the
// default last action. Returns true when the file changed.
func EnsureEntry(path, entry, command string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	want := entryLine(entry, command)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		name, _, ok := strings.Cut(trimmed, ":")
		if !ok || strings.TrimSpace(name) != entry {
			continue
		}
		if trimmed == want {
			return false, nil
		}
		// entry exists with a stale command
		lines[i] = want
		return true, writeLines(path, lines, info.Mode().Perm())
	}

	insertAt := len(lines)
	for i, line := range lines {
		name, _, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "Quit", "Exit":
			insertAt = i
		}
	}

	lines = append(lines[:insertAt], append([]string{want}, lines[insertAt:]...)...)
	return true, writeLines(path, lines, info.Mode().Perm())
}

// RemoveEntry drops the entry from the menu file. Returns true when the
// file changed.
func RemoveEntry(path, entry string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		name, _, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && strings.TrimSpace(name) == entry {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}
	return true, writeLines(path, kept, info.Mode().Perm())
}

func writeLines(path string, lines []string, mode os.FileMode) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
