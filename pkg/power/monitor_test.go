package power

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	battery    BatteryStatus
	idle       bool
	idleSince  time.Time
	hibernated int
}

func (f *fakeBus) Battery(context.Context) (BatteryStatus, error) {
	return f.battery, nil
}

func (f *fakeBus) IdleSince(context.Context) (bool, time.Time, error) {
	return f.idle, f.idleSince, nil
}

func (f *fakeBus) Hibernate(context.Context) error {
	f.hibernated++
	return nil
}

func TestMonitorBatteryTrigger(t *testing.T) {
	bus := &fakeBus{battery: BatteryStatus{Present: true, Percentage: 4, State: BatteryDischarging}}
	m := &Monitor{Threshold: 5, bus: bus, armed: true}

	m.check(context.Background())
	require.Equal(t, 1, bus.hibernated)

	// still below threshold after waking up: no retrigger
	m.check(context.Background())
	require.Equal(t, 1, bus.hibernated)

	// charger plugged in, condition clears and the trigger re-arms
	bus.battery.State = BatteryCharging
	m.check(context.Background())
	require.Equal(t, 1, bus.hibernated)

	bus.battery.State = BatteryDischarging
	m.check(context.Background())
	require.Equal(t, 2, bus.hibernated)
}

func TestMonitorIgnoresChargingBattery(t *testing.T) {
	bus := &fakeBus{battery: BatteryStatus{Present: true, Percentage: 3, State: BatteryCharging}}
	m := &Monitor{Threshold: 5, bus: bus, armed: true}

	m.check(context.Background())
	require.Zero(t, bus.hibernated)
}

func TestMonitorIdleTrigger(t *testing.T) {
	bus := &fakeBus{idle: true, idleSince: time.Now().Add(-time.Hour)}
	m := &Monitor{IdleDelay: 30 * time.Minute, bus: bus, armed: true}

	m.check(context.Background())
	require.Equal(t, 1, bus.hibernated)
}

func TestMonitorIdleBelowDelay(t *testing.T) {
	bus := &fakeBus{idle: true, idleSince: time.Now().Add(-time.Minute)}
	m := &Monitor{IdleDelay: 30 * time.Minute, bus: bus, armed: true}

	m.check(context.Background())
	require.Zero(t, bus.hibernated)
}

func TestMonitorDisabledTriggers(t *testing.T) {
	bus := &fakeBus{
		battery:   BatteryStatus{Present: true, Percentage: 1, State: BatteryDischarging},
		idle:      true,
		idleSince: time.Now().Add(-time.Hour),
	}
	m := &Monitor{bus: bus, armed: true}

	m.check(context.Background())
	require.Zero(t, bus.hibernated)
}

func TestMonitorUnitContent(t *testing.T) {
	content := MonitorUnitContent("/usr/local/bin/hibernatectl", 5, 30*time.Minute, 30*time.Second)
	require.Contains(t, content, "ExecStart=/usr/local/bin/hibernatectl monitor --threshold 5 --idle-delay 30m0s --interval 30s")
	require.Contains(t, content, "WantedBy=multi-user.target")
}
