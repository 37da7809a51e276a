package phase

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/hibernatectl/hibernatectl/internal/shell"
)

// minKernel is the oldest kernel with working btrfs swapfile hibernation.
const minKernel = "5.4"

// osReleasePath is replaceable in tests.
var osReleasePath = "/etc/os-release"

// DetectEnvironment discovers the distribution, the kernel version and
// the tools the later phases will shell out to.
type DetectEnvironment struct {
	GenericPhase
}

// Title for the phase
func (p *DetectEnvironment) Title() string {
	return "Detect environment"
}

// Run the phase
func (p *DetectEnvironment) Run(_ context.Context) error {
	meta := p.Config.Metadata

	meta.Distro = prettyName(osReleasePath)
	if meta.Distro != "" {
		log.Infof("running on %s", meta.Distro)
	}

	release, err := kernelRelease()
	if err != nil {
		return err
	}
	meta.KernelVersion = release
	log.Infof("kernel version is %s", release)

	if err := checkKernel(release); err != nil {
		return err
	}

	for _, command := range p.requiredCommands() {
		if _, err := p.Runner().LookPath(command); err != nil {
			return fmt.Errorf("required command not found: %s", command)
		}
		log.Debugf("found required command %s", command)
	}

	if exe, err := os.Executable(); err == nil {
		meta.Executable = exe
	}

	return nil
}

func (p *DetectEnvironment) requiredCommands() []string {
	commands := []string{"btrfs", "swapon", "swapoff"}
	for _, cmdline := range []string{p.Config.Spec.Bootloader.UpdateCommand, p.Config.Spec.Initramfs.RegenerateCommand} {
		if parts, err := shell.Split(cmdline); err == nil && len(parts) > 0 {
			commands = append(commands, parts[0])
		}
	}
	return commands
}

func kernelRelease() (string, error) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uname.Release[:]), nil
}

// checkKernel rejects kernels too old for btrfs swapfile hibernation.
// The release string may carry a local suffix such as "-arch1-1".
func checkKernel(release string) error {
	core := release
	if idx := strings.IndexAny(core, "-+"); idx > 0 {
		core = core[:idx]
	}
	v, err := goversion.NewVersion(core)
	if err != nil {
		log.Warnf("cannot parse kernel version %q, skipping version check", release)
		return nil
	}
	min := goversion.Must(goversion.NewVersion(minKernel))
	if v.LessThan(min) {
		return fmt.Errorf("kernel %s is too old, btrfs swapfile hibernation needs %s or newer", release, minKernel)
	}
	return nil
}

// prettyName returns the PRETTY_NAME from os-release, or "".
func prettyName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if value, ok := strings.CutPrefix(scanner.Text(), "PRETTY_NAME="); ok {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}
