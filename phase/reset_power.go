package phase

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// ResetPowerPolicy removes the drop-ins and the monitor unit.
type ResetPowerPolicy struct {
	GenericPhase

	Bus *power.Systemd
}

// Title for the phase
func (p *ResetPowerPolicy) Title() string {
	return "Restore power policy"
}

// Run the phase
func (p *ResetPowerPolicy) Run(ctx context.Context) error {
	var logindChanged, unitChanged bool

	for _, path := range []string{logindDropInPath, sleepDropInPath} {
		path := path
		dropIn := &power.DropIn{Path: path}
		err := p.Wet("remove "+path, func() error {
			removed, err := dropIn.Remove()
			if err != nil {
				// refuse only the foreign file, keep resetting the rest
				if errors.Is(err, power.ErrNotManaged) {
					log.Warnf("leaving %s in place: %s", path, err)
					return nil
				}
				return err
			}
			if !removed {
				log.Debugf("%s does not exist", path)
			} else if path == logindDropInPath {
				logindChanged = true
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(power.MonitorUnitPath); err == nil {
		err := p.Wet("remove "+power.MonitorUnit, func() error {
			bus, err := p.bus()
			if err != nil {
				return err
			}
			if err := bus.StopUnit(ctx, power.MonitorUnit); err != nil {
				log.Debugf("stop %s: %s", power.MonitorUnit, err)
			}
			if err := bus.DisableUnit(ctx, power.MonitorUnit); err != nil {
				log.Debugf("disable %s: %s", power.MonitorUnit, err)
			}
			unitChanged, err = power.RemoveMonitorUnit()
			return err
		})
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if !p.IsWet() || (!logindChanged && !unitChanged) {
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
		if err := bus.RestartUnit(ctx, "systemd-logind.service"); err != nil {
			return err
		}
	}
	return nil
}

func (p *ResetPowerPolicy) bus() (*power.Systemd, error) {
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
func (p *ResetPowerPolicy) CleanUp() {
	if p.Bus != nil {
		_ = p.Bus.Close()
	}
}
