package action

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"github.com/hibernatectl/hibernatectl/phase"
)

type Reset struct {
	// Manager is the phase manager
	Manager *phase.Manager
	Stdout  io.Writer
	Force   bool
}

// Run the Reset action
func (r Reset) Run(ctx context.Context) error {
	if !r.Force {
		if stdoutFile, ok := r.Stdout.(*os.File); ok && !isatty.IsTerminal(stdoutFile.Fd()) {
			return fmt.Errorf("reset requires --force when not running interactively")
		}
		confirmed := false
		prompt := &survey.Confirm{
			Message: "Going to undo the hibernation setup, removing the swapfile and all configuration changes. Are you sure?",
		}
		_ = survey.AskOne(prompt, &confirmed)
		if !confirmed {
			return fmt.Errorf("confirmation or --force required to proceed")
		}
	}

	start := time.Now()

	r.Manager.AddPhase(
		&phase.DetectEnvironment{},
		&phase.ValidateHost{},
		&phase.GatherFacts{},
		&phase.ResetRuntime{},
		&phase.ResetPowerPolicy{},
		&phase.ResetMenu{},
		&phase.ResetInitramfs{},
		&phase.ResetBootloader{},
		&phase.ResetSwap{},
	)

	if err := r.Manager.Run(ctx); err != nil {
		return err
	}

	duration := time.Since(start).Truncate(time.Second)
	text := fmt.Sprintf("==> Finished in %s", duration)
	log.Info(phase.Colorize.Green(text).String())

	return nil
}
