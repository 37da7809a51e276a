// Package run wraps execution of system utilities so that callers can log,
// dry-run and fake the commands the tool shells out to.
package run

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner executes system commands.
type Runner interface {
	// Run executes the command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports the full path of an executable or an error when it
	// is not found.
	LookPath(name string) (string, error)
}

// Exec is the default Runner backed by os/exec.
type Exec struct{}

// Run executes the command, logging it and its output at debug level.
func (Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	log.Debugf("executing `%s %s`", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := strings.TrimRight(buf.String(), "\n")
	if err != nil {
		if out != "" {
			log.Debugf("command `%s` output: %s", name, out)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LookPath resolves the executable through $PATH.
func (Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
