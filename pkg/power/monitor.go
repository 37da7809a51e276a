package power

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/retry"
)

// monitorBus is the part of Systemd the monitor needs, extracted so tests
// can substitute a fake.
type monitorBus interface {
	Battery(ctx context.Context) (BatteryStatus, error)
	IdleSince(ctx context.Context) (bool, time.Time, error)
	Hibernate(ctx context.Context) error
}

// Monitor watches battery charge and session idleness and hibernates the
// machine through logind when a trigger condition holds.
type Monitor struct {
	Bus *Systemd

	// Threshold is the battery percentage at or below which the machine
	// hibernates while discharging. Zero disables the battery trigger.
	Threshold float64
	// IdleDelay hibernates when the session has been idle this long.
	// Zero disables the idle trigger.
	IdleDelay time.Duration
	// Interval between checks.
	Interval time.Duration

	bus monitorBus
	// armed gates retriggering: once the monitor has hibernated, the
	// trigger condition must clear before it may fire again.
	armed bool
}

// Run polls until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m.bus == nil {
		m.bus = m.Bus
	}
	if m.Interval <= 0 {
		m.Interval = 30 * time.Second
	}
	m.armed = true

	log.Infof("monitoring power state (battery threshold %.0f%%, idle delay %s)", m.Threshold, m.IdleDelay)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check performs one poll round. Errors are logged, not fatal: a missing
// UPower daemon must not kill the monitor.
func (m *Monitor) check(ctx context.Context) {
	reason, triggered := m.triggered(ctx)

	if !triggered {
		if !m.armed {
			log.Debug("trigger condition cleared, re-arming")
			m.armed = true
		}
		return
	}

	if !m.armed {
		log.Debugf("%s, but a hibernation was already triggered", reason)
		return
	}

	log.Infof("%s, hibernating", reason)
	m.armed = false

	err := retry.Times(ctx, 3, func(ctx context.Context) error {
		return m.bus.Hibernate(ctx)
	})
	if err != nil {
		log.Errorf("failed to hibernate: %v", err)
		// let the next round try again
		m.armed = true
	}
}

func (m *Monitor) triggered(ctx context.Context) (string, bool) {
	if m.Threshold > 0 {
		battery, err := m.bus.Battery(ctx)
		if err != nil {
			log.Warnf("battery status unavailable: %v", err)
		} else if battery.Discharging() && battery.Percentage <= m.Threshold {
			return fmt.Sprintf("battery at %.0f%% while discharging", battery.Percentage), true
		}
	}

	if m.IdleDelay > 0 {
		idle, since, err := m.bus.IdleSince(ctx)
		if err != nil {
			log.Warnf("idle status unavailable: %v", err)
		} else if idle && !since.IsZero() && time.Since(since) >= m.IdleDelay {
			return "session idle for " + time.Since(since).Truncate(time.Second).String(), true
		}
	}

	return "", false
}
