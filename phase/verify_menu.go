package phase

import (
	"context"

	"github.com/hibernatectl/hibernatectl/pkg/menu"
)

// VerifyMenu checks that every discovered menu file carries the entry.
type VerifyMenu struct {
	GenericPhase
	Report *Report
}

// Title for the phase
func (p *VerifyMenu) Title() string {
	return "Verify application menus"
}

// ShouldRun is true when menu patching is configured.
func (p *VerifyMenu) ShouldRun() bool {
	return len(p.Config.Spec.Menu.Paths) > 0
}

// Run the phase
func (p *VerifyMenu) Run(_ context.Context) error {
	spec := p.Config.Spec.Menu

	files, err := menu.Discover(spec.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.Report.Fail("menu entry", "no menu files matched %v", spec.Paths)
		return nil
	}

	for _, file := range files {
		present, err := menu.HasEntry(file, spec.Entry, spec.Command)
		if err != nil {
			return err
		}
		if !present {
			p.Report.Fail("menu entry", "%s has no %s entry", file, spec.Entry)
			return nil
		}
	}

	p.Report.Pass("menu entry")
	return nil
}
