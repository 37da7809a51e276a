package power

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	upowerDest        = "org.freedesktop.UPower"
	upowerDisplayPath = "/org/freedesktop/UPower/devices/DisplayDevice"
	upowerDeviceIface = "org.freedesktop.UPower.Device"
)

// Battery states as reported by UPower.
const (
	BatteryUnknown     uint32 = 0
	BatteryCharging    uint32 = 1
	BatteryDischarging uint32 = 2
	BatteryEmpty       uint32 = 3
	BatteryFull        uint32 = 4
)

// BatteryStatus is a snapshot of the composite display device.
type BatteryStatus struct {
	Present    bool
	Percentage float64
	State      uint32
}

// Discharging reports whether the battery is draining.
func (b BatteryStatus) Discharging() bool {
	return b.Present && (b.State == BatteryDischarging || b.State == BatteryEmpty)
}

// Battery reads the composite battery status from UPower. Desktops
// without a battery return Present=false.
func (s *Systemd) Battery(ctx context.Context) (BatteryStatus, error) {
	obj := s.conn.Object(upowerDest, upowerDisplayPath)

	var status BatteryStatus
	presentVar, err := obj.GetProperty(upowerDeviceIface + ".IsPresent")
	if err != nil {
		if dbusErr, ok := err.(dbus.Error); ok && dbusErr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" {
			return status, nil
		}
		return status, fmt.Errorf("battery presence: %w", err)
	}
	status.Present, _ = presentVar.Value().(bool)
	if !status.Present {
		return status, nil
	}

	pctVar, err := obj.GetProperty(upowerDeviceIface + ".Percentage")
	if err != nil {
		return status, fmt.Errorf("battery percentage: %w", err)
	}
	status.Percentage, _ = pctVar.Value().(float64)

	stateVar, err := obj.GetProperty(upowerDeviceIface + ".State")
	if err != nil {
		return status, fmt.Errorf("battery state: %w", err)
	}
	status.State, _ = stateVar.Value().(uint32)

	return status, nil
}
