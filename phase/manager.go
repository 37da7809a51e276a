// Package phase defines the reconciliation phases and the manager that
// runs them in order.
package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/config"
	"github.com/hibernatectl/hibernatectl/pkg/run"
)

type phase interface {
	Run(ctx context.Context) error
	Title() string
}

type withconfig interface {
	Prepare(*config.Config) error
}

type withrunner interface {
	SetRunner(run.Runner)
}

type withmanager interface {
	SetManager(*Manager)
}

type conditional interface {
	ShouldRun() bool
}

type beforehook interface {
	Before() error
}

type afterhook interface {
	After(err error) error
}

type withcleanup interface {
	CleanUp()
}

// Phases is a slice of phases with helpers for inserting new ones around
// existing ones.
type Phases []phase

// Index returns the position of the phase with the given title, or -1.
func (p Phases) Index(title string) int {
	for i, ph := range p {
		if ph.Title() == title {
			return i
		}
	}
	return -1
}

// InsertBefore inserts a phase before the phase with the given title.
func (p *Phases) InsertBefore(title string, newPhase phase) error {
	idx := p.Index(title)
	if idx < 0 {
		return fmt.Errorf("phase %q not found", title)
	}
	*p = append((*p)[:idx], append(Phases{newPhase}, (*p)[idx:]...)...)
	return nil
}

// Manager executes phases to reconcile the system toward the configured
// state.
type Manager struct {
	Config *config.Config
	Runner run.Runner
	DryRun bool

	phases Phases
}

// NewManager creates a Manager for the config.
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("manager created without a config")
	}
	return &Manager{Config: cfg, Runner: run.Exec{}}, nil
}

// AddPhase adds phases to the manager.
func (m *Manager) AddPhase(p ...phase) {
	m.phases = append(m.phases, p...)
}

// SetPhases replaces the phase list.
func (m *Manager) SetPhases(p Phases) {
	m.phases = p
}

// Run executes the phases in order. The CleanUp hooks of already-run
// phases fire when a later phase fails.
func (m *Manager) Run(ctx context.Context) error {
	if m.Runner == nil {
		m.Runner = run.Exec{}
	}

	var ran Phases
	var result error

	defer func() {
		if result == nil {
			return
		}
		for _, p := range ran {
			if c, ok := p.(withcleanup); ok {
				log.Debugf("cleaning up phase '%s'", p.Title())
				c.CleanUp()
			}
		}
	}()

	for _, p := range m.phases {
		if err := ctx.Err(); err != nil {
			result = err
			return result
		}

		log.Debugf("preparing phase '%s'", p.Title())
		if wr, ok := p.(withrunner); ok {
			wr.SetRunner(m.Runner)
		}
		if wm, ok := p.(withmanager); ok {
			wm.SetManager(m)
		}
		if wc, ok := p.(withconfig); ok {
			if err := wc.Prepare(m.Config); err != nil {
				result = fmt.Errorf("prepare phase '%s': %w", p.Title(), err)
				return result
			}
		}

		if c, ok := p.(conditional); ok && !c.ShouldRun() {
			log.Debugf("skipping phase '%s'", p.Title())
			continue
		}

		if b, ok := p.(beforehook); ok {
			if err := b.Before(); err != nil {
				log.Debugf("before hook failed '%s': %s", p.Title(), err.Error())
				result = err
				return result
			}
		}

		text := Colorize.Green("==> Running phase: %s").String()
		log.Infof(text, p.Title())
		err := p.Run(ctx)
		ran = append(ran, p)

		if a, ok := p.(afterhook); ok {
			if aerr := a.After(err); aerr != nil {
				log.Debugf("after hook failed '%s': %s", p.Title(), aerr.Error())
				if err == nil {
					err = aerr
				}
			}
		}

		if err != nil {
			result = fmt.Errorf("phase '%s': %w", p.Title(), err)
			return result
		}
	}

	return nil
}
