package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/backup"
	"github.com/hibernatectl/hibernatectl/pkg/menu"
)

// ConfigureMenu adds the hibernate entry to the discovered menu files.
type ConfigureMenu struct {
	GenericPhase

	files []string
}

// Title for the phase
func (p *ConfigureMenu) Title() string {
	return "Configure application menus"
}

// ShouldRun is true when menu patching is configured.
func (p *ConfigureMenu) ShouldRun() bool {
	return len(p.Config.Spec.Menu.Paths) > 0
}

// Before discovers the menu files.
func (p *ConfigureMenu) Before() error {
	files, err := menu.Discover(p.Config.Spec.Menu.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warnf("no menu files matched %v", p.Config.Spec.Menu.Paths)
	}
	p.files = files
	return nil
}

// Run the phase
func (p *ConfigureMenu) Run(_ context.Context) error {
	spec := p.Config.Spec.Menu

	for _, file := range p.files {
		file := file
		present, err := menu.HasEntry(file, spec.Entry, spec.Command)
		if err != nil {
			return err
		}
		if present {
			log.Debugf("%s already has a %s entry", file, spec.Entry)
			continue
		}

		err = p.Wet(fmt.Sprintf("add %s entry to %s", spec.Entry, file), func() error {
			if _, err := backup.Create(file); err != nil {
				return err
			}
			_, err := menu.EnsureEntry(file, spec.Entry, spec.Command)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}
