// Package swap inspects and manages swap devices: /proc/swaps state,
// swapfile activation and the fstab registration.
package swap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/run"
)

// paths replaceable in tests.
var (
	procSwaps   = "/proc/swaps"
	procMeminfo = "/proc/meminfo"
)

// Entry is an active swap area as listed in /proc/swaps.
type Entry struct {
	Filename string
	Type     string
	Size     uint64 // bytes
	Used     uint64 // bytes
	Priority int
}

// Active returns the active swap areas.
func Active() ([]Entry, error) {
	f, err := os.Open(procSwaps)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Filename" {
			continue
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		used, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			continue
		}
		prio, _ := strconv.Atoi(fields[4])
		entries = append(entries, Entry{
			Filename: fields[0],
			Type:     fields[1],
			Size:     size * 1024,
			Used:     used * 1024,
			Priority: prio,
		})
	}
	return entries, scanner.Err()
}

// Find returns the active swap entry for the given path, or nil.
func Find(path string) (*Entry, error) {
	entries, err := Active()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Filename == path {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// MemTotal returns the amount of installed memory in bytes.
func MemTotal() (uint64, error) {
	f, err := os.Open(procMeminfo)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse MemTotal: %w", err)
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("MemTotal not found in %s", procMeminfo)
}

// ParseSize converts a human readable size such as "40GiB" into bytes.
func ParseSize(s string) (uint64, error) {
	b, err := bytefmt.ToBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	return b, nil
}

// FormatSize renders bytes in human readable form, eg. "40G".
func FormatSize(b uint64) string {
	return bytefmt.ByteSize(b)
}

// On activates the swap area.
func On(ctx context.Context, r run.Runner, path string) error {
	out, err := r.Run(ctx, "swapon", path)
	if err != nil {
		return fmt.Errorf("swapon %s: %s: %w", path, out, err)
	}
	return nil
}

// Off deactivates the swap area. Deactivating an inactive area is not an
// error.
func Off(ctx context.Context, r run.Runner, path string) error {
	entry, err := Find(path)
	if err != nil {
		return err
	}
	if entry == nil {
		log.Debugf("%s is not an active swap area", path)
		return nil
	}
	out, err := r.Run(ctx, "swapoff", path)
	if err != nil {
		return fmt.Errorf("swapoff %s: %s: %w", path, out, err)
	}
	return nil
}

// fstabLine is the row registered for the swapfile.
func fstabLine(path string) string {
	return path + " none swap defaults 0 0"
}

// InFstab reports whether the swapfile is registered in fstab.
func InFstab(fstab, path string) (bool, error) {
	content, err := os.ReadFile(fstab)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == path && fields[2] == "swap" {
			return true, nil
		}
	}
	return false, nil
}

// EnsureFstab registers the swapfile in fstab unless already present.
// Returns true when the file was modified.
func EnsureFstab(fstab, path string) (bool, error) {
	content, err := os.ReadFile(fstab)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == path && fields[2] == "swap" {
			return false, nil
		}
	}

	out := string(content)
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += fstabLine(path) + "\n"

	if err := os.WriteFile(fstab, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("update %s: %w", fstab, err)
	}
	return true, nil
}

// RemoveFstab drops the swapfile row from fstab. Returns true when the
// file was modified.
func RemoveFstab(fstab, path string) (bool, error) {
	content, err := os.ReadFile(fstab)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == path && fields[2] == "swap" {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(fstab, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("update %s: %w", fstab, err)
	}
	return true, nil
}
