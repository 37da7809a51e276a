package power

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	systemdDest = "org.freedesktop.systemd1"
	systemdPath = "/org/freedesktop/systemd1"
	login1Dest  = "org.freedesktop.login1"
	login1Path  = "/org/freedesktop/login1"
)

// Systemd talks to the service manager and logind over the system bus.
type Systemd struct {
	conn *dbus.Conn
}

// ConnectSystemd opens a system bus connection.
func ConnectSystemd() (*Systemd, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return &Systemd{conn: conn}, nil
}

// Close releases the bus connection.
func (s *Systemd) Close() error {
	return s.conn.Close()
}

func (s *Systemd) manager() dbus.BusObject {
	return s.conn.Object(systemdDest, systemdPath)
}

func (s *Systemd) login() dbus.BusObject {
	return s.conn.Object(login1Dest, login1Path)
}

// DaemonReload asks systemd to reload its configuration.
func (s *Systemd) DaemonReload(ctx context.Context) error {
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.Reload", 0)
	if call.Err != nil {
		return fmt.Errorf("daemon-reload: %w", call.Err)
	}
	return nil
}

// EnableUnit enables the unit persistently.
func (s *Systemd) EnableUnit(ctx context.Context, unit string) error {
	var carriesInstallInfo bool
	var changes [][]interface{}
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.EnableUnitFiles", 0, []string{unit}, false, true)
	if call.Err != nil {
		return fmt.Errorf("enable %s: %w", unit, call.Err)
	}
	if err := call.Store(&carriesInstallInfo, &changes); err != nil {
		return fmt.Errorf("enable %s: %w", unit, err)
	}
	return nil
}

// DisableUnit disables the unit.
func (s *Systemd) DisableUnit(ctx context.Context, unit string) error {
	var changes [][]interface{}
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.DisableUnitFiles", 0, []string{unit}, false)
	if call.Err != nil {
		return fmt.Errorf("disable %s: %w", unit, call.Err)
	}
	return call.Store(&changes)
}

// RestartUnit restarts (or starts) the unit and returns once the job has
// been queued.
func (s *Systemd) RestartUnit(ctx context.Context, unit string) error {
	var job dbus.ObjectPath
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.RestartUnit", 0, unit, "replace")
	if call.Err != nil {
		return fmt.Errorf("restart %s: %w", unit, call.Err)
	}
	return call.Store(&job)
}

// StopUnit stops the unit.
func (s *Systemd) StopUnit(ctx context.Context, unit string) error {
	var job dbus.ObjectPath
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.StopUnit", 0, unit, "replace")
	if call.Err != nil {
		return fmt.Errorf("stop %s: %w", unit, call.Err)
	}
	return call.Store(&job)
}

// UnitActive reports whether the unit is in the active state.
func (s *Systemd) UnitActive(ctx context.Context, unit string) (bool, error) {
	var path dbus.ObjectPath
	call := s.manager().CallWithContext(ctx, systemdDest+".Manager.GetUnit", 0, unit)
	if call.Err != nil {
		// GetUnit fails for units that are not loaded
		return false, nil
	}
	if err := call.Store(&path); err != nil {
		return false, err
	}

	variant, err := s.conn.Object(systemdDest, path).GetProperty(systemdDest + ".Unit.ActiveState")
	if err != nil {
		return false, fmt.Errorf("unit %s state: %w", unit, err)
	}
	state, _ := variant.Value().(string)
	return state == "active", nil
}

// CanHibernate asks logind whether hibernation is possible. The answer is
// "yes", "no", "na" or "challenge".
func (s *Systemd) CanHibernate(ctx context.Context) (string, error) {
	var answer string
	call := s.login().CallWithContext(ctx, login1Dest+".Manager.CanHibernate", 0)
	if call.Err != nil {
		return "", fmt.Errorf("CanHibernate: %w", call.Err)
	}
	if err := call.Store(&answer); err != nil {
		return "", err
	}
	return answer, nil
}

// Hibernate asks logind to hibernate the machine without interactive
// polkit authorization.
func (s *Systemd) Hibernate(ctx context.Context) error {
	call := s.login().CallWithContext(ctx, login1Dest+".Manager.Hibernate", 0, false)
	if call.Err != nil {
		return fmt.Errorf("hibernate: %w", call.Err)
	}
	return nil
}

// IdleSince returns logind's idle hint and the time the system went idle.
// The timestamp is zero while not idle.
func (s *Systemd) IdleSince(ctx context.Context) (bool, time.Time, error) {
	obj := s.login()

	hintVar, err := obj.GetProperty(login1Dest + ".Manager.IdleHint")
	if err != nil {
		return false, time.Time{}, fmt.Errorf("IdleHint: %w", err)
	}
	idle, _ := hintVar.Value().(bool)
	if !idle {
		return false, time.Time{}, nil
	}

	sinceVar, err := obj.GetProperty(login1Dest + ".Manager.IdleSinceHint")
	if err != nil {
		return false, time.Time{}, fmt.Errorf("IdleSinceHint: %w", err)
	}
	usec, _ := sinceVar.Value().(uint64)
	if usec == 0 {
		return true, time.Time{}, nil
	}
	return true, time.UnixMicro(int64(usec)), nil
}
