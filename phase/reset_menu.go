package phase

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/menu"
)

// ResetMenu removes the hibernate entry from the menu files.
type ResetMenu struct {
	GenericPhase
}

// Title for the phase
func (p *ResetMenu) Title() string {
	return "Restore application menus"
}

// ShouldRun is true when menu patching is configured.
func (p *ResetMenu) ShouldRun() bool {
	return len(p.Config.Spec.Menu.Paths) > 0
}

// Run the phase
func (p *ResetMenu) Run(_ context.Context) error {
	spec := p.Config.Spec.Menu

	files, err := menu.Discover(spec.Paths)
	if err != nil {
		return err
	}

	for _, file := range files {
		file := file
		err := p.Wet("remove the "+spec.Entry+" entry from "+file, func() error {
			removed, err := menu.RemoveEntry(file, spec.Entry)
			if err != nil {
				return err
			}
			if !removed {
				log.Debugf("%s has no %s entry", file, spec.Entry)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
