package phase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// euid is replaceable in tests.
var euid = os.Geteuid

// ValidateHost checks that the host can be configured for hibernation at
// all: root privileges, a btrfs root, a hibernation-capable kernel and a
// Limine configuration to edit.
type ValidateHost struct {
	GenericPhase
}

// Title for the phase
func (p *ValidateHost) Title() string {
	return "Validate host"
}

// Run the phase
func (p *ValidateHost) Run(_ context.Context) error {
	if euid() != 0 {
		return fmt.Errorf("must be run as root")
	}

	meta := p.Config.Metadata

	root, err := btrfs.MountFor("/")
	if err != nil {
		return err
	}
	meta.RootFSType = root.FSType
	meta.RootDevice = root.Source
	if root.FSType != "btrfs" {
		return fmt.Errorf("root filesystem is %s, only btrfs is supported", root.FSType)
	}
	log.Infof("root filesystem is btrfs on %s", root.Source)

	// The swapfile may live on a different btrfs than /, eg. a separate
	// subvolume mount. Resume must point at its backing device.
	swapMount, err := btrfs.MountFor(filepath.Dir(p.Config.Spec.Swap.File))
	if err != nil {
		return err
	}
	if swapMount.FSType != "btrfs" {
		return fmt.Errorf("swapfile location %s is on %s, not btrfs", p.Config.Spec.Swap.File, swapMount.FSType)
	}
	meta.SwapFSDevice = swapMount.Source

	if ok, err := power.SupportsHibernation(); err != nil {
		return fmt.Errorf("read kernel sleep states: %w", err)
	} else if !ok {
		return fmt.Errorf("kernel does not support suspend-to-disk")
	}

	if _, err := os.Stat(p.Config.Spec.Bootloader.Config); err != nil {
		return fmt.Errorf("bootloader configuration %s: %w", p.Config.Spec.Bootloader.Config, err)
	}

	return nil
}
