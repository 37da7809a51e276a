package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// drop-in locations, replaceable in tests.
var (
	logindDropInPath = "/etc/systemd/logind.conf.d/10-hibernatectl.conf"
	sleepDropInPath  = "/etc/systemd/sleep.conf.d/10-hibernatectl.conf"
)

// ConfigurePowerPolicy writes the logind and sleep drop-ins, installs
// the monitor service and reloads the affected daemons over D-Bus.
type ConfigurePowerPolicy struct {
	GenericPhase

	// Bus is connected lazily when nil.
	Bus *power.Systemd
}

// Title for the phase
func (p *ConfigurePowerPolicy) Title() string {
	return "Configure power policy"
}

// Run the phase
func (p *ConfigurePowerPolicy) Run(ctx context.Context) error {
	spec := p.Config.Spec
	meta := p.Config.Metadata

	logind := &power.DropIn{
		Path:     logindDropInPath,
		Section:  "Login",
		Settings: spec.Power.LogindSettings(),
	}
	sleep := &power.DropIn{
		Path:    sleepDropInPath,
		Section: "Sleep",
		Settings: map[string]string{
			"AllowHibernation":          "yes",
			"AllowSuspendThenHibernate": "yes",
		},
	}

	var logindChanged, unitChanged bool

	for _, dropIn := range []*power.DropIn{logind, sleep} {
		dropIn := dropIn
		converged, err := dropIn.Converged()
		if err != nil {
			return err
		}
		if converged {
			log.Debugf("%s already up to date", dropIn.Path)
			continue
		}
		err = p.Wet("write "+dropIn.Path, func() error {
			changed, err := dropIn.Write()
			if changed && dropIn == logind {
				logindChanged = true
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	if spec.Power.LowBattery.Threshold > 0 || spec.Power.IdleDelayDuration() > 0 {
		err := p.Wet("install "+power.MonitorUnit, func() error {
			changed, err := power.InstallMonitorUnit(
				meta.Executable,
				float64(spec.Power.LowBattery.Threshold),
				spec.Power.IdleDelayDuration(),
				spec.Power.LowBattery.IntervalDuration(),
			)
			unitChanged = changed
			return err
		})
		if err != nil {
			return err
		}
	}

	if !p.IsWet() {
		return nil
	}
	if !logindChanged && !unitChanged {
		return nil
	}

	bus, err := p.bus()
	if err != nil {
		return err
	}

	if err := bus.DaemonReload(ctx); err != nil {
		return err
	}

	if logindChanged {
		// logind re-reads its configuration on restart only; sessions
		// survive the restart
		log.Infof("restarting systemd-logind to pick up the new handlers")
		if err := bus.RestartUnit(ctx, "systemd-logind.service"); err != nil {
			return err
		}
	}

	if unitChanged {
		if err := bus.EnableUnit(ctx, power.MonitorUnit); err != nil {
			return err
		}
		if err := bus.RestartUnit(ctx, power.MonitorUnit); err != nil {
			return err
		}
		meta.RecordChange("enable " + power.MonitorUnit)
	}

	return nil
}

func (p *ConfigurePowerPolicy) bus() (*power.Systemd, error) {
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
func (p *ConfigurePowerPolicy) CleanUp() {
	if p.Bus != nil {
		_ = p.Bus.Close()
	}
}
