package phase

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/internal/shell"
	"github.com/hibernatectl/hibernatectl/pkg/backup"
	"github.com/hibernatectl/hibernatectl/pkg/limine"
)

// ResetBootloader strips the resume parameters from the bootloader
// configuration, preferring a backup restore over editing.
type ResetBootloader struct {
	GenericPhase
}

// Title for the phase
func (p *ResetBootloader) Title() string {
	return "Restore bootloader configuration"
}

// Run the phase
func (p *ResetBootloader) Run(ctx context.Context) error {
	path := p.Config.Spec.Bootloader.Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debugf("%s does not exist", path)
		return nil
	}

	var changed bool
	err := p.Wet("strip resume parameters from "+path, func() error {
		restored, err := backup.Restore(path)
		if err != nil {
			return err
		}
		if restored {
			changed = true
			return nil
		}

		file, err := limine.Load(path)
		if err != nil {
			return err
		}
		changed, err = file.RemoveParams("resume", "resume_offset")
		if err != nil {
			return err
		}
		if !changed {
			log.Debugf("%s carries no resume parameters", path)
			return nil
		}
		return file.Save()
	})
	if err != nil {
		return err
	}

	update := p.Config.Spec.Bootloader.UpdateCommand
	if !changed || update == "" {
		return nil
	}
	return p.Wet("run "+update, func() error {
		args, err := shell.Split(update)
		if err != nil {
			return err
		}
		out, err := p.Runner().Run(ctx, args[0], args[1:]...)
		if err != nil {
			log.Errorf("%s: %s", update, out)
		}
		return err
	})
}
