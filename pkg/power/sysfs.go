package power

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// sysPowerDir is replaceable in tests.
var sysPowerDir = "/sys/power"

// SupportsHibernation reports whether the running kernel lists disk as a
// sleep state.
func SupportsHibernation() (bool, error) {
	content, err := os.ReadFile(sysPowerDir + "/state")
	if err != nil {
		return false, err
	}
	for _, state := range strings.Fields(string(content)) {
		if state == "disk" {
			return true, nil
		}
	}
	return false, nil
}

// RuntimeResume returns the resume device (major:minor) and offset the
// running kernel is configured with. An unset device reads as "0:0".
func RuntimeResume() (device string, offset uint64, err error) {
	devRaw, err := os.ReadFile(sysPowerDir + "/resume")
	if err != nil {
		return "", 0, err
	}
	device = strings.TrimSpace(string(devRaw))

	offRaw, err := os.ReadFile(sysPowerDir + "/resume_offset")
	if err != nil {
		// resume_offset appeared in linux 4.17; treat absence as zero
		if os.IsNotExist(err) {
			return device, 0, nil
		}
		return "", 0, err
	}
	offset, err = strconv.ParseUint(strings.TrimSpace(string(offRaw)), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse resume_offset: %w", err)
	}
	return device, offset, nil
}

// SetRuntimeResume points the running kernel at the resume device and
// offset. The offset must be written before the device: writing the
// device validates the combination.
func SetRuntimeResume(device string, offset uint64) error {
	if err := os.WriteFile(sysPowerDir+"/resume_offset", []byte(strconv.FormatUint(offset, 10)), 0644); err != nil {
		return fmt.Errorf("write resume_offset: %w", err)
	}
	if err := os.WriteFile(sysPowerDir+"/resume", []byte(device), 0644); err != nil {
		return fmt.Errorf("write resume: %w", err)
	}
	return nil
}
