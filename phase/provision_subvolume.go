package phase

import (
	"context"
	"os"

	"github.com/hibernatectl/hibernatectl/config"
	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
)

// ProvisionSubvolume creates the dedicated swap subvolume with
// copy-on-write disabled.
type ProvisionSubvolume struct {
	GenericPhase

	exists bool
}

// Title for the phase
func (p *ProvisionSubvolume) Title() string {
	return "Provision swap subvolume"
}

// Prepare checks whether the subvolume already exists.
func (p *ProvisionSubvolume) Prepare(c *config.Config) error {
	p.Config = c
	if _, err := os.Stat(c.Spec.Swap.Subvolume); err == nil {
		p.exists = btrfs.IsSubvolume(context.Background(), p.Runner(), c.Spec.Swap.Subvolume)
	}
	return nil
}

// ShouldRun is true when the subvolume is missing.
func (p *ProvisionSubvolume) ShouldRun() bool {
	return !p.exists
}

// Run the phase
func (p *ProvisionSubvolume) Run(ctx context.Context) error {
	path := p.Config.Spec.Swap.Subvolume
	return p.Wet("create btrfs subvolume "+path, func() error {
		return btrfs.CreateSubvolume(ctx, p.Runner(), path)
	})
}
