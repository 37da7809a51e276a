package phase

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/internal/shell"
	"github.com/hibernatectl/hibernatectl/pkg/backup"
	"github.com/hibernatectl/hibernatectl/pkg/initramfs"
)

// ResetInitramfs removes the resume hook and regenerates the initramfs.
type ResetInitramfs struct {
	GenericPhase
}

// Title for the phase
func (p *ResetInitramfs) Title() string {
	return "Restore initramfs configuration"
}

// Run the phase
func (p *ResetInitramfs) Run(ctx context.Context) error {
	spec := p.Config.Spec.Initramfs

	if _, err := os.Stat(spec.Config); os.IsNotExist(err) {
		log.Debugf("%s does not exist", spec.Config)
		return nil
	}

	var changed bool
	err := p.Wet("remove the "+spec.Hook+" hook from "+spec.Config, func() error {
		restored, err := backup.Restore(spec.Config)
		if err != nil {
			return err
		}
		if restored {
			changed = true
			return nil
		}

		changed, err = initramfs.RemoveHook(spec.Config, spec.Hook)
		if err != nil {
			return err
		}
		if !changed {
			log.Debugf("%s does not list the %s hook", spec.Config, spec.Hook)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !changed || spec.RegenerateCommand == "" {
		return nil
	}
	return p.Wet("run "+spec.RegenerateCommand, func() error {
		args, err := shell.Split(spec.RegenerateCommand)
		if err != nil {
			return err
		}
		out, err := p.Runner().Run(ctx, args[0], args[1:]...)
		if err != nil {
			log.Errorf("%s: %s", spec.RegenerateCommand, out)
		}
		return err
	})
}
