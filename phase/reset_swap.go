package phase

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

// ResetSwap deactivates and removes the swapfile and its subvolume.
type ResetSwap struct {
	GenericPhase
}

// Title for the phase
func (p *ResetSwap) Title() string {
	return "Remove swapfile"
}

// Run the phase
func (p *ResetSwap) Run(ctx context.Context) error {
	spec := p.Config.Spec

	if p.Config.Metadata.SwapActive {
		err := p.Wet("deactivate swap on "+spec.Swap.File, func() error {
			return swap.Off(ctx, p.Runner(), spec.Swap.File)
		})
		if err != nil {
			return err
		}
	}

	err := p.Wet("remove "+spec.Swap.File+" from "+spec.Fstab, func() error {
		changed, err := swap.RemoveFstab(spec.Fstab, spec.Swap.File)
		if err != nil {
			return err
		}
		if !changed {
			log.Debugf("%s was not registered in %s", spec.Swap.File, spec.Fstab)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if p.Config.Metadata.SwapfileExists {
		err := p.Wet("delete "+spec.Swap.File, func() error {
			return os.Remove(spec.Swap.File)
		})
		if err != nil {
			return err
		}
	}

	if btrfs.IsSubvolume(ctx, p.Runner(), spec.Swap.Subvolume) {
		err := p.Wet("delete btrfs subvolume "+spec.Swap.Subvolume, func() error {
			return btrfs.DeleteSubvolume(ctx, p.Runner(), spec.Swap.Subvolume)
		})
		if err != nil {
			return err
		}
	}

	return nil
}
