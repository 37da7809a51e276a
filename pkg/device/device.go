// Package device resolves block device identities: filesystem UUIDs and
// the major:minor numbers the kernel wants in /sys/power/resume.
package device

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// byUUIDDir is replaceable in tests.
var byUUIDDir = "/dev/disk/by-uuid"

// UUID returns the filesystem UUID of the block device by reverse lookup
// through /dev/disk/by-uuid.
func UUID(dev string) (string, error) {
	resolved, err := filepath.EvalSymlinks(dev)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dev, err)
	}

	entries, err := os.ReadDir(byUUIDDir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		link := filepath.Join(byUUIDDir, entry.Name())
		target, err := filepath.EvalSymlinks(link)
		if err != nil {
			continue
		}
		if target == resolved {
			return entry.Name(), nil
		}
	}

	return "", fmt.Errorf("no UUID found for %s", dev)
}

// MajMin returns the device numbers as "major:minor", the format
// /sys/power/resume accepts.
func MajMin(dev string) (string, error) {
	var stat unix.Stat_t
	if err := unix.Stat(dev, &stat); err != nil {
		return "", fmt.Errorf("stat %s: %w", dev, err)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFBLK {
		return "", fmt.Errorf("%s is not a block device", dev)
	}
	return fmt.Sprintf("%d:%d", unix.Major(uint64(stat.Rdev)), unix.Minor(uint64(stat.Rdev))), nil
}
