package phase

import (
	"context"
	"fmt"
	"os"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// VerifyPowerPolicy checks the logind drop-in, the kernel's hibernation
// support and logind's own view, and the monitor unit state.
type VerifyPowerPolicy struct {
	GenericPhase

	Report *Report
	Bus    *power.Systemd
}

// Title for the phase
func (p *VerifyPowerPolicy) Title() string {
	return "Verify power policy"
}

// Run the phase
func (p *VerifyPowerPolicy) Run(ctx context.Context) error {
	spec := p.Config.Spec

	supported, err := power.SupportsHibernation()
	if err != nil {
		return err
	}
	if supported {
		p.Report.Pass("kernel hibernation support")
	} else {
		p.Report.Fail("kernel hibernation support", "the kernel does not list disk as a sleep state")
	}

	dropIn := &power.DropIn{
		Path:     logindDropInPath,
		Section:  "Login",
		Settings: spec.Power.LogindSettings(),
	}
	converged, err := dropIn.Converged()
	if err != nil {
		return err
	}
	if converged {
		p.Report.Pass("logind drop-in")
	} else {
		p.Report.Fail("logind drop-in", "%s is missing or differs from the configured handlers", dropIn.Path)
	}

	bus, err := p.bus()
	if err != nil {
		return err
	}

	answer, err := bus.CanHibernate(ctx)
	if err != nil {
		return err
	}
	if answer == "yes" {
		p.Report.Pass("logind CanHibernate")
	} else {
		p.Report.Fail("logind CanHibernate", "logind answers %q", answer)
	}

	if spec.Power.LowBattery.Threshold > 0 || spec.Power.IdleDelayDuration() > 0 {
		if _, err := os.Stat(power.MonitorUnitPath); err != nil {
			p.Report.Fail("monitor unit", "%s is not installed", power.MonitorUnit)
		} else if active, err := bus.UnitActive(ctx, power.MonitorUnit); err != nil {
			return err
		} else if active {
			p.Report.Pass("monitor unit")
		} else {
			p.Report.Fail("monitor unit", "%s is installed but not running", power.MonitorUnit)
		}
	}

	return nil
}

func (p *VerifyPowerPolicy) bus() (*power.Systemd, error) {
	if p.Bus != nil {
		return p.Bus, nil
	}
	bus, err := power.ConnectSystemd()
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	p.Bus = bus
	return bus, nil
}

// CleanUp closes the bus connection.
func (p *VerifyPowerPolicy) CleanUp() {
	if p.Bus != nil {
		_ = p.Bus.Close()
	}
}
