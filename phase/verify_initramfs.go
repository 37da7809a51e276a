package phase

import (
	"context"
)

// VerifyInitramfs checks that the resume hook is configured.
type VerifyInitramfs struct {
	GenericPhase
	Report *Report
}

// Title for the phase
func (p *VerifyInitramfs) Title() string {
	return "Verify initramfs"
}

// Run the phase
func (p *VerifyInitramfs) Run(_ context.Context) error {
	spec := p.Config.Spec.Initramfs

	if p.Config.Metadata.HookPresent {
		p.Report.Pass("initramfs hook")
	} else {
		p.Report.Fail("initramfs hook", "%s does not list the %s hook", spec.Config, spec.Hook)
	}

	return nil
}
