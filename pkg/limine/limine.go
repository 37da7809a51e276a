// Package limine edits the kernel command lines carried in a Limine
// bootloader configuration file while leaving everything else untouched.
package limine

import (
	"fmt"
	"os"
	"strings"

	"github.com/hibernatectl/hibernatectl/pkg/cmdline"
)

// Marker is prepended to a config file on first edit so later runs know
// the file is managed and a fresh backup is not needed.
const Marker = "# generated by hibernatectl"

// File is a loaded Limine configuration. Both the current `cmdline:` key
// style and the legacy `CMDLINE=` / `KERNEL_CMDLINE=` styles are
// recognized.
type File struct {
	Path  string
	lines []string
	mode  os.FileMode
}

// Load reads a Limine configuration file.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{
		Path:  path,
		lines: strings.Split(strings.TrimRight(string(content), "\n"), "\n"),
		mode:  info.Mode().Perm(),
	}, nil
}

// cmdlineValue splits a config line into its indent+key prefix and the
// command line value, or returns ok=false for non-cmdline lines.
func cmdlineValue(line string) (prefix, value string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")

	for _, form := range []struct{ key, sep string }{
		{"cmdline", ":"},
		{"kernel_cmdline", ":"},
		{"CMDLINE", "="},
		{"KERNEL_CMDLINE", "="},
	} {
		rest, found := strings.CutPrefix(trimmed, form.key)
		if !found {
			continue
		}
		rest = strings.TrimLeft(rest, " \t")
		rest, found = strings.CutPrefix(rest, form.sep)
		if !found {
			continue
		}
		lead := len(rest) - len(strings.TrimLeft(rest, " \t"))
		idx := len(line) - len(rest) + lead
		return line[:idx], strings.TrimRight(line[idx:], " \t"), true
	}
	return "", "", false
}

// Managed reports whether the file already carries the hibernatectl
// marker.
func (f *File) Managed() bool {
	for _, line := range f.lines {
		if strings.HasPrefix(line, Marker) {
			return true
		}
	}
	return false
}

// Cmdlines returns the parsed kernel command lines found in the file.
func (f *File) Cmdlines() ([]cmdline.Params, error) {
	var out []cmdline.Params
	for _, line := range f.lines {
		if _, value, ok := cmdlineValue(line); ok {
			p, err := cmdline.Parse(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Path, err)
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// EnsureParams rewrites every kernel command line in the file so that it
// carries the given parameters, replacing existing values for the same
// keys. It returns true when any line changed.
func (f *File) EnsureParams(params ...string) (bool, error) {
	return f.editCmdlines(func(p *cmdline.Params) {
		for _, param := range params {
			p.AddOrReplace(param)
		}
	})
}

// RemoveParams drops the given parameter keys from every kernel command
// line in the file. It returns true when any line changed.
func (f *File) RemoveParams(keys ...string) (bool, error) {
	return f.editCmdlines(func(p *cmdline.Params) {
		for _, key := range keys {
			p.Delete(key)
		}
	})
}

func (f *File) editCmdlines(edit func(*cmdline.Params)) (bool, error) {
	changed := false
	for i, line := range f.lines {
		prefix, value, ok := cmdlineValue(line)
		if !ok {
			continue
		}
		p, err := cmdline.Parse(value)
		if err != nil {
			return false, fmt.Errorf("%s: %w", f.Path, err)
		}
		edit(&p)
		if rendered := p.String(); rendered != value {
			f.lines[i] = prefix + rendered
			changed = true
		}
	}
	return changed, nil
}

// Save writes the file back, prepending the marker when missing.
func (f *File) Save() error {
	lines := f.lines
	if !f.Managed() {
		lines = append([]string{Marker}, lines...)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(f.Path, []byte(content), f.mode); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}
