package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// ApplyRuntime points the running kernel at the resume target so
// hibernation works before the next reboot.
type ApplyRuntime struct {
	GenericPhase
}

// Title for the phase
func (p *ApplyRuntime) Title() string {
	return "Apply runtime resume target"
}

// ShouldRun is true once the resume location has been resolved.
func (p *ApplyRuntime) ShouldRun() bool {
	return p.Config.Metadata.ResumeMajMin != ""
}

// Run the phase
func (p *ApplyRuntime) Run(_ context.Context) error {
	meta := p.Config.Metadata

	device, offset, err := power.RuntimeResume()
	if err != nil {
		return err
	}
	if device == meta.ResumeMajMin && offset == meta.ResumeOffset {
		log.Debugf("kernel already resumes from %s offset %d", device, offset)
		return nil
	}

	msg := fmt.Sprintf("set runtime resume target to %s offset %d", meta.ResumeMajMin, meta.ResumeOffset)
	return p.Wet(msg, func() error {
		return power.SetRuntimeResume(meta.ResumeMajMin, meta.ResumeOffset)
	})
}
