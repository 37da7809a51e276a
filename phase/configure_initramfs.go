package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/internal/shell"
	"github.com/hibernatectl/hibernatectl/pkg/backup"
	"github.com/hibernatectl/hibernatectl/pkg/initramfs"
)

// ConfigureInitramfs injects the resume hook into mkinitcpio.conf and
// regenerates the initramfs images.
type ConfigureInitramfs struct {
	GenericPhase

	// SkipRegenerate leaves image regeneration to the user.
	SkipRegenerate bool
}

// Title for the phase
func (p *ConfigureInitramfs) Title() string {
	return "Configure initramfs"
}

// Run the phase
func (p *ConfigureInitramfs) Run(ctx context.Context) error {
	spec := p.Config.Spec
	meta := p.Config.Metadata

	if meta.HookPresent {
		log.Debugf("%s hook already present in %s", spec.Initramfs.Hook, spec.Initramfs.Config)
		return nil
	}

	err := p.Wet(fmt.Sprintf("add %s hook to %s", spec.Initramfs.Hook, spec.Initramfs.Config), func() error {
		if _, err := backup.Create(spec.Initramfs.Config); err != nil {
			return err
		}
		changed, err := initramfs.EnsureHook(spec.Initramfs.Config, spec.Initramfs.Hook, spec.Initramfs.After)
		if err != nil {
			return err
		}
		if changed {
			meta.HookPresent = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if p.SkipRegenerate {
		log.Warnf("skipping initramfs regeneration, run `%s` manually", spec.Initramfs.RegenerateCommand)
		return nil
	}

	return p.Wet("regenerate initramfs via "+spec.Initramfs.RegenerateCommand, func() error {
		parts, err := shell.Split(spec.Initramfs.RegenerateCommand)
		if err != nil || len(parts) == 0 {
			return fmt.Errorf("invalid initramfs regenerate command %q", spec.Initramfs.RegenerateCommand)
		}
		out, err := p.Runner().Run(ctx, parts[0], parts[1:]...)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", spec.Initramfs.RegenerateCommand, out, err)
		}
		return nil
	})
}
