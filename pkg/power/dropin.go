// Package power configures how the system reacts to power events: logind
// handlers, sleep settings and the battery/idle hibernation monitor.
package power

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DropInMarker identifies drop-in files written by hibernatectl.
const DropInMarker = "# generated by hibernatectl"

// ErrNotManaged is returned when a file was not written by hibernatectl.
var ErrNotManaged = errors.New("not written by hibernatectl")

// DropIn is a systemd configuration drop-in: a single-section ini
// fragment placed in a .conf.d directory.
type DropIn struct {
	Path     string
	Section  string
	Settings map[string]string
}

// Render produces the drop-in file content with keys in stable order.
func (d *DropIn) Render() string {
	keys := make([]string, 0, len(d.Settings))
	for k := range d.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(DropInMarker + "\n")
	fmt.Fprintf(&sb, "[%s]\n", d.Section)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, d.Settings[k])
	}
	return sb.String()
}

// Converged reports whether the file on disk already matches the drop-in.
func (d *DropIn) Converged() (bool, error) {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return string(content) == d.Render(), nil
}

// Write creates the drop-in directory and file. Returns true when the
// file was created or changed.
func (d *DropIn) Write() (bool, error) {
	converged, err := d.Converged()
	if err != nil {
		return false, err
	}
	if converged {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(d.Path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(d.Path, []byte(d.Render()), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", d.Path, err)
	}
	return true, nil
}

// Remove deletes the drop-in file when it carries the marker. Returns
// true when a file was removed.
func (d *DropIn) Remove() (bool, error) {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !strings.HasPrefix(string(content), DropInMarker) {
		return false, fmt.Errorf("%s: %w", d.Path, ErrNotManaged)
	}
	if err := os.Remove(d.Path); err != nil {
		return false, err
	}
	return true, nil
}

// Values parses the settings present in the drop-in file on disk,
// ignoring comments and section headers.
func (d *DropIn) Values() (map[string]string, error) {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return out, nil
}
