package action

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/phase"
)

type Verify struct {
	// Manager is the phase manager
	Manager *phase.Manager
}

// Run the Verify action
func (v Verify) Run(ctx context.Context) error {
	start := time.Now()

	report := &phase.Report{}
	v.Manager.AddPhase(
		&phase.DetectEnvironment{},
		&phase.ValidateHost{},
		&phase.GatherFacts{},
		&phase.VerifySwap{Report: report},
		&phase.VerifyResume{Report: report},
		&phase.VerifyInitramfs{Report: report},
		&phase.VerifyPowerPolicy{Report: report},
		&phase.VerifyMenu{Report: report},
		&phase.VerifySummary{Report: report},
	)

	if err := v.Manager.Run(ctx); err != nil {
		return err
	}

	duration := time.Since(start).Truncate(time.Second)
	log.Info(phase.Colorize.Green("==> Finished in " + duration.String()).String())
	return nil
}
