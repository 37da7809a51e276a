package power

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MonitorUnit is the name of the systemd service running the monitor.
const MonitorUnit = "hibernatectl-monitor.service"

// MonitorUnitPath is where the unit file is installed.
var MonitorUnitPath = "/etc/systemd/system/" + MonitorUnit

// MonitorUnitContent renders the service unit for the monitor.
func MonitorUnitContent(executable string, threshold float64, idleDelay, interval time.Duration) string {
	var sb strings.Builder
	sb.WriteString(DropInMarker + "\n")
	sb.WriteString("[Unit]\n")
	sb.WriteString("Description=Hibernate on low battery or long idle\n")
	sb.WriteString("After=multi-user.target upower.service\n\n")
	sb.WriteString("[Service]\n")
	fmt.Fprintf(&sb, "ExecStart=%s monitor --threshold %.0f --idle-delay %s --interval %s\n",
		executable, threshold, idleDelay, interval)
	sb.WriteString("Restart=on-failure\nRestartSec=10\n\n")
	sb.WriteString("[Install]\nWantedBy=multi-user.target\n")
	return sb.String()
}

// InstallMonitorUnit writes the unit file. Returns true when the file was
// created or changed.
func InstallMonitorUnit(executable string, threshold float64, idleDelay, interval time.Duration) (bool, error) {
	content := MonitorUnitContent(executable, threshold, idleDelay, interval)

	current, err := os.ReadFile(MonitorUnitPath)
	if err == nil && string(current) == content {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	if err := os.WriteFile(MonitorUnitPath, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", MonitorUnitPath, err)
	}
	return true, nil
}

// RemoveMonitorUnit deletes the unit file. Returns true when a file was
// removed.
func RemoveMonitorUnit() (bool, error) {
	if err := os.Remove(MonitorUnitPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
