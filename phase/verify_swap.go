package phase

import (
	"context"

	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

// VerifySwap checks that the swapfile exists with the wanted size and is
// active.
type VerifySwap struct {
	GenericPhase
	Report *Report
}

// Title for the phase
func (p *VerifySwap) Title() string {
	return "Verify swap"
}

// Run the phase
func (p *VerifySwap) Run(_ context.Context) error {
	meta := p.Config.Metadata
	spec := p.Config.Spec

	switch {
	case !meta.SwapfileExists:
		p.Report.Fail("swapfile", "%s does not exist", spec.Swap.File)
	case meta.SwapfileSize != meta.DesiredSwapSize:
		p.Report.Fail("swapfile", "%s is %s, want %s", spec.Swap.File,
			swap.FormatSize(meta.SwapfileSize), swap.FormatSize(meta.DesiredSwapSize))
	default:
		p.Report.Pass("swapfile")
	}

	if meta.SwapActive {
		p.Report.Pass("swap active")
	} else {
		p.Report.Fail("swap active", "%s is not an active swap device", spec.Swap.File)
	}

	registered, err := swap.InFstab(spec.Fstab, spec.Swap.File)
	if err != nil {
		return err
	}
	if registered {
		p.Report.Pass("fstab entry")
	} else {
		p.Report.Fail("fstab entry", "%s is not registered in %s", spec.Swap.File, spec.Fstab)
	}

	return nil
}
