package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

// ProvisionSwapfile creates or resizes the swapfile, registers it in
// fstab and activates it.
type ProvisionSwapfile struct {
	GenericPhase
}

// Title for the phase
func (p *ProvisionSwapfile) Title() string {
	return "Provision swapfile"
}

// Run the phase
func (p *ProvisionSwapfile) Run(ctx context.Context) error {
	spec := p.Config.Spec
	meta := p.Config.Metadata
	path := spec.Swap.File

	switch {
	case !meta.SwapfileExists:
		err := p.Wet(fmt.Sprintf("create %s swapfile at %s", swap.FormatSize(meta.DesiredSwapSize), path), func() error {
			return btrfs.MkSwapfile(ctx, p.Runner(), path, meta.DesiredSwapSize)
		})
		if err != nil {
			return err
		}

	case meta.SwapfileSize != meta.DesiredSwapSize:
		log.Warnf("swapfile is %s but %s is wanted, recreating", swap.FormatSize(meta.SwapfileSize), swap.FormatSize(meta.DesiredSwapSize))
		err := p.Wet(fmt.Sprintf("recreate swapfile %s at %s", path, swap.FormatSize(meta.DesiredSwapSize)), func() error {
			if err := swap.Off(ctx, p.Runner(), path); err != nil {
				return err
			}
			meta.SwapActive = false
			if _, err := p.Runner().Run(ctx, "rm", "-f", path); err != nil {
				return err
			}
			return btrfs.MkSwapfile(ctx, p.Runner(), path, meta.DesiredSwapSize)
		})
		if err != nil {
			return err
		}

	default:
		log.Debugf("swapfile %s already has the wanted size", path)
	}

	registered, err := swap.InFstab(spec.Fstab, path)
	if err != nil {
		return err
	}
	if !registered {
		err := p.Wet("register swapfile in "+spec.Fstab, func() error {
			if _, err := swap.EnsureFstab(spec.Fstab, path); err != nil {
				return err
			}
			log.Infof("registered %s in %s", path, spec.Fstab)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if !meta.SwapActive {
		err := p.Wet("activate swap on "+path, func() error {
			if err := swap.On(ctx, p.Runner(), path); err != nil {
				return err
			}
			meta.SwapActive = true
			return nil
		})
		if err != nil {
			return err
		}
	}

	if p.IsWet() {
		meta.SwapfileExists = true
		meta.SwapfileSize = meta.DesiredSwapSize
	}

	return nil
}
