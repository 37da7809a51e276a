// Package initramfs manages the HOOKS array in mkinitcpio.conf. The
// resume hook must run after the filesystems hook so the swap device is
// available when the image looks for a hibernation signature.
package initramfs

import (
	"fmt"
	"os"
	"strings"
)

// Hooks returns the hooks configured in a mkinitcpio.conf.
func Hooks(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if hooks, ok := parseHooksLine(line); ok {
			return hooks, nil
		}
	}
	return nil, fmt.Errorf("no HOOKS line found in %s", path)
}

// HasHook reports whether the hook is configured.
func HasHook(path, hook string) (bool, error) {
	hooks, err := Hooks(path)
	if err != nil {
		return false, err
	}
	for _, h := range hooks {
		if h == hook {
			return true, nil
		}
	}
	return false, nil
}

// EnsureHook inserts the hook directly after the given anchor hook, or at
// the end when the anchor is absent. Returns true when the file changed.
func EnsureHook(path, hook, after string) (bool, error) {
	return editHooks(path, func(hooks []string) []string {
		for _, h := range hooks {
			if h == hook {
				return hooks
			}
		}
		for i, h := range hooks {
			if h == after {
				out := make([]string, 0, len(hooks)+1)
				out = append(out, hooks[:i+1]...)
				out = append(out, hook)
				out = append(out, hooks[i+1:]...)
				return out
			}
		}
		return append(hooks, hook)
	})
}

// RemoveHook drops the hook. Returns true when the file changed.
func RemoveHook(path, hook string) (bool, error) {
	return editHooks(path, func(hooks []string) []string {
		out := hooks[:0]
		for _, h := range hooks {
			if h != hook {
				out = append(out, h)
			}
		}
		return out
	})
}

func editHooks(path string, edit func([]string) []string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	lines := strings.Split(string(content), "\n")
	changed := false
	found := false
	for i, line := range lines {
		hooks, ok := parseHooksLine(line)
		if !ok {
			continue
		}
		found = true
		edited := edit(append([]string(nil), hooks...))
		if strings.Join(edited, " ") == strings.Join(hooks, " ") {
			continue
		}
		lines[i] = "HOOKS=(" + strings.Join(edited, " ") + ")"
		changed = true
	}
	if !found {
		return false, fmt.Errorf("no HOOKS line found in %s", path)
	}
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// parseHooksLine understands both the array form HOOKS=(a b c) and the
// legacy quoted form HOOKS="a b c".
func parseHooksLine(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "HOOKS=")
	if !ok {
		return nil, false
	}

	switch {
	case strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")"):
		rest = rest[1 : len(rest)-1]
	case strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) && len(rest) >= 2:
		rest = rest[1 : len(rest)-1]
	default:
		return nil, false
	}

	return strings.Fields(rest), true
}
