package run

import (
	"context"
	"fmt"
	"strings"
)

// FakeResult is a scripted response for a Fake runner.
type FakeResult struct {
	Output string
	Err    error
}

// Fake is a Runner for tests. Commands are matched by their first word
// (the executable name) or by the full command line, full matches winning.
// Unscripted commands succeed with empty output.
type Fake struct {
	Results  map[string]FakeResult
	Commands []string
	Missing  []string
}

// Run records the command line and returns the scripted result.
func (f *Fake) Run(_ context.Context, name string, args ...string) (string, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.Commands = append(f.Commands, line)
	if r, ok := f.Results[line]; ok {
		return r.Output, r.Err
	}
	if r, ok := f.Results[name]; ok {
		return r.Output, r.Err
	}
	return "", nil
}

// LookPath fails for executables listed in Missing.
func (f *Fake) LookPath(name string) (string, error) {
	for _, m := range f.Missing {
		if m == name {
			return "", fmt.Errorf("%s: executable file not found in $PATH", name)
		}
	}
	return "/usr/bin/" + name, nil
}

// Ran reports whether a command line with the given prefix was executed.
func (f *Fake) Ran(prefix string) bool {
	for _, c := range f.Commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
