package phase

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// ResetRuntime clears the running kernel's resume target.
type ResetRuntime struct {
	GenericPhase
}

// Title for the phase
func (p *ResetRuntime) Title() string {
	return "Clear runtime resume target"
}

// Run the phase
func (p *ResetRuntime) Run(_ context.Context) error {
	device, offset, err := power.RuntimeResume()
	if err != nil {
		return err
	}
	if device == "0:0" && offset == 0 {
		log.Debugf("kernel has no resume target set")
		return nil
	}

	return p.Wet("clear the runtime resume target", func() error {
		return power.SetRuntimeResume("0:0", 0)
	})
}
