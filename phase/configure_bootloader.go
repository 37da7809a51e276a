package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/internal/shell"
	"github.com/hibernatectl/hibernatectl/pkg/backup"
	"github.com/hibernatectl/hibernatectl/pkg/limine"
)

// ConfigureBootloader persists the resume parameters into the kernel
// command lines of the Limine configuration.
type ConfigureBootloader struct {
	GenericPhase
}

// Title for the phase
func (p *ConfigureBootloader) Title() string {
	return "Configure bootloader"
}

// ShouldRun is true once the resume parameters are known.
func (p *ConfigureBootloader) ShouldRun() bool {
	return p.Config.Metadata.ResumeUUID != ""
}

// Run the phase
func (p *ConfigureBootloader) Run(ctx context.Context) error {
	spec := p.Config.Spec
	meta := p.Config.Metadata

	file, err := limine.Load(spec.Bootloader.Config)
	if err != nil {
		return err
	}

	params := []string{
		fmt.Sprintf("resume=UUID=%s", meta.ResumeUUID),
		fmt.Sprintf("resume_offset=%d", meta.ResumeOffset),
	}

	changed, err := file.EnsureParams(params...)
	if err != nil {
		return err
	}
	if !changed {
		log.Debugf("%s already carries the resume parameters", file.Path)
		return nil
	}

	err = p.Wet(fmt.Sprintf("write resume parameters to %s", file.Path), func() error {
		if !file.Managed() {
			if _, err := backup.Create(file.Path); err != nil {
				return err
			}
		}
		return file.Save()
	})
	if err != nil {
		return err
	}

	if spec.Bootloader.UpdateCommand == "" {
		return nil
	}
	return p.Wet("run "+spec.Bootloader.UpdateCommand, func() error {
		parts, err := shell.Split(spec.Bootloader.UpdateCommand)
		if err != nil || len(parts) == 0 {
			return fmt.Errorf("invalid bootloader update command %q", spec.Bootloader.UpdateCommand)
		}
		out, err := p.Runner().Run(ctx, parts[0], parts[1:]...)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", spec.Bootloader.UpdateCommand, out, err)
		}
		return nil
	})
}
