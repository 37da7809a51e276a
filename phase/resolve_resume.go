package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
	"github.com/hibernatectl/hibernatectl/pkg/device"
)

// ResolveResume determines the resume device identity and the physical
// extent offset of the swapfile.
type ResolveResume struct {
	GenericPhase
}

// Title for the phase
func (p *ResolveResume) Title() string {
	return "Resolve resume parameters"
}

// ShouldRun is false in dry-run mode when the swapfile does not exist
// yet, as there is nothing to map.
func (p *ResolveResume) ShouldRun() bool {
	if p.Config.Metadata.SwapfileExists {
		return true
	}
	if p.IsWet() {
		return true
	}
	log.Warn("dry-run: cannot resolve the resume offset before the swapfile exists")
	return false
}

// Run the phase
func (p *ResolveResume) Run(ctx context.Context) error {
	meta := p.Config.Metadata
	dev := meta.SwapFSDevice

	uuid, err := device.UUID(dev)
	if err != nil {
		return fmt.Errorf("resolve resume device: %w", err)
	}
	meta.ResumeUUID = uuid

	majmin, err := device.MajMin(dev)
	if err != nil {
		return err
	}
	meta.ResumeMajMin = majmin

	offset, err := btrfs.ResumeOffset(ctx, p.Runner(), p.Config.Spec.Swap.File)
	if err != nil {
		return fmt.Errorf("resolve resume offset: %w", err)
	}
	meta.ResumeOffset = offset

	log.Infof("resume device is %s (UUID=%s), offset %d", dev, uuid, offset)
	return nil
}
