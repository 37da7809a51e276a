// Package action implements the top level operations behind the cli
// commands by composing phase lists and running them through the
// phase manager.
package action

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/phase"
)

type ApplyOptions struct {
	// Manager is the phase manager
	Manager *phase.Manager
	// NoInitramfs skips the initramfs regeneration
	NoInitramfs bool
}

type Apply struct {
	ApplyOptions
	Phases phase.Phases
}

// NewApply creates a new Apply action. The phase list can be modified
// via the Phases field before Run.
func NewApply(opts ApplyOptions) *Apply {
	return &Apply{
		ApplyOptions: opts,
		Phases: phase.Phases{
			&phase.DetectEnvironment{},
			&phase.ValidateHost{},
			&phase.GatherFacts{},
			&phase.ProvisionSubvolume{},
			&phase.ProvisionSwapfile{},
			&phase.ResolveResume{},
			&phase.ConfigureBootloader{},
			&phase.ConfigureInitramfs{SkipRegenerate: opts.NoInitramfs},
			&phase.ConfigurePowerPolicy{},
			&phase.ConfigureMenu{},
			&phase.ApplyRuntime{},
		},
	}
}

// Run the Apply action
func (a Apply) Run(ctx context.Context) error {
	if len(a.Phases) == 0 {
		a.Phases = NewApply(a.ApplyOptions).Phases
	}
	start := time.Now()

	a.Manager.SetPhases(a.Phases)

	if err := a.Manager.Run(ctx); err != nil {
		log.Info(phase.Colorize.Red("==> Apply failed").String())
		return err
	}

	duration := time.Since(start).Truncate(time.Second)
	text := fmt.Sprintf("==> Finished in %s", duration)
	log.Info(phase.Colorize.Green(text).String())

	meta := a.Manager.Config.Metadata
	if a.Manager.DryRun {
		if len(meta.Changes) == 0 {
			log.Info("dry-run: the system is already configured for hibernation")
		} else {
			log.Infof("dry-run: %d changes would be applied", len(meta.Changes))
		}
		return nil
	}

	if len(meta.Changes) == 0 {
		log.Info("the system was already configured for hibernation")
		return nil
	}

	log.Infof("%d changes applied:", len(meta.Changes))
	for _, change := range meta.Changes {
		log.Infof("  - %s", change)
	}
	executable := meta.Executable
	if executable == "" {
		executable = "hibernatectl"
	}
	log.Info("Tip: run " + phase.Colorize.Cyan(executable+" verify").String() + " to check the result")
	return nil
}
