package phase

import (
	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/config"
	"github.com/hibernatectl/hibernatectl/pkg/run"
)

// GenericPhase provides the boilerplate most phases share: access to the
// config, the command runner and dry-run handling.
type GenericPhase struct {
	Config *config.Config

	manager *Manager
	runner  run.Runner
}

// Prepare stores the config.
func (p *GenericPhase) Prepare(c *config.Config) error {
	p.Config = c
	return nil
}

// SetManager stores a reference to the manager running the phase.
func (p *GenericPhase) SetManager(m *Manager) {
	p.manager = m
}

// SetRunner stores the command runner.
func (p *GenericPhase) SetRunner(r run.Runner) {
	p.runner = r
}

// Runner returns the command runner.
func (p *GenericPhase) Runner() run.Runner {
	if p.runner == nil {
		p.runner = run.Exec{}
	}
	return p.runner
}

// IsWet returns true unless the manager runs in dry-run mode.
func (p *GenericPhase) IsWet() bool {
	return p.manager == nil || !p.manager.DryRun
}

// Wet runs the function unless in dry-run mode, in which case it only
// logs what would be done. The message is also recorded as an applied
// change for the end-of-run summary.
func (p *GenericPhase) Wet(msg string, fn func() error) error {
	if !p.IsWet() {
		log.Warnf("dry-run: would %s", msg)
		p.record(msg)
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	p.record(msg)
	return nil
}

func (p *GenericPhase) record(msg string) {
	if p.Config != nil && p.Config.Metadata != nil {
		p.Config.Metadata.RecordChange(msg)
	}
}
