// Package btrfs manages the swap subvolume and swapfile through btrfs(8)
// and resolves the on-disk resume offset of a swapfile.
package btrfs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/run"
)

// Mount describes a mounted filesystem as reported by /proc/self/mountinfo.
type Mount struct {
	Mountpoint string
	FSType     string
	Source     string
	SubvolPath string
}

// mountinfoPath is replaceable in tests.
var mountinfoPath = "/proc/self/mountinfo"

// MountFor returns the mount that contains the given path, ie. the mount
// with the longest mountpoint prefix of it.
func MountFor(path string) (*Mount, error) {
	f, err := os.Open(mountinfoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var best *Mount
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m, ok := parseMountinfoLine(scanner.Text())
		if !ok {
			continue
		}
		if path != m.Mountpoint && !strings.HasPrefix(path, strings.TrimSuffix(m.Mountpoint, "/")+"/") {
			continue
		}
		if best == nil || len(m.Mountpoint) > len(best.Mountpoint) {
			best = m
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("no mount found for %s", path)
	}
	return best, nil
}

// parseMountinfoLine parses a single mountinfo row. The format is
// "id parent maj:min root mountpoint options [optional...] - fstype source superopts".
func parseMountinfoLine(line string) (*Mount, bool) {
	fields := strings.Fields(line)
	sep := -1
	for i, f := range fields {
		if f == "-" {
			sep = i
			break
		}
	}
	if sep < 5 || len(fields) < sep+3 {
		return nil, false
	}

	m := &Mount{
		Mountpoint: unescapeMountPath(fields[4]),
		FSType:     fields[sep+1],
		Source:     fields[sep+2],
	}
	for _, opt := range strings.Split(fields[sep+3], ",") {
		if v, ok := strings.CutPrefix(opt, "subvol="); ok {
			m.SubvolPath = v
		}
	}
	return m, true
}

// unescapeMountPath decodes the octal escapes mountinfo uses for spaces
// and other special characters.
func unescapeMountPath(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				sb.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// IsSubvolume reports whether the path is a btrfs subvolume.
func IsSubvolume(ctx context.Context, r run.Runner, path string) bool {
	_, err := r.Run(ctx, "btrfs", "subvolume", "show", path)
	return err == nil
}

// CreateSubvolume creates a btrfs subvolume and disables copy-on-write on
// it, which is required for swapfiles.
func CreateSubvolume(ctx context.Context, r run.Runner, path string) error {
	out, err := r.Run(ctx, "btrfs", "subvolume", "create", path)
	if err != nil {
		return fmt.Errorf("create subvolume %s: %s: %w", path, out, err)
	}
	if out, err := r.Run(ctx, "chattr", "+C", path); err != nil {
		return fmt.Errorf("disable copy-on-write on %s: %s: %w", path, out, err)
	}
	return nil
}

// DeleteSubvolume removes a btrfs subvolume.
func DeleteSubvolume(ctx context.Context, r run.Runner, path string) error {
	out, err := r.Run(ctx, "btrfs", "subvolume", "delete", path)
	if err != nil {
		return fmt.Errorf("delete subvolume %s: %s: %w", path, out, err)
	}
	return nil
}

// MkSwapfile creates a fully allocated, NOCOW swapfile of the given size
// using `btrfs filesystem mkswapfile`.
func MkSwapfile(ctx context.Context, r run.Runner, path string, size uint64) error {
	out, err := r.Run(ctx, "btrfs", "filesystem", "mkswapfile", "--size", strconv.FormatUint(size, 10), path)
	if err != nil {
		return fmt.Errorf("mkswapfile %s: %s: %w", path, out, err)
	}
	return nil
}

// ResumeOffset returns the value for the resume_offset kernel parameter
// for the given swapfile. `btrfs inspect-internal map-swapfile -r` resolves
// the file's physical placement on the backing device; older btrfs-progs
// without the subcommand fall back to the FIEMAP ioctl.
func ResumeOffset(ctx context.Context, r run.Runner, path string) (uint64, error) {
	out, err := r.Run(ctx, "btrfs", "inspect-internal", "map-swapfile", "-r", path)
	if err == nil {
		offset, perr := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("unexpected map-swapfile output %q: %w", out, perr)
		}
		return offset, nil
	}

	log.Debugf("map-swapfile failed (%v), falling back to FIEMAP", err)
	return fiemapResumeOffset(path)
}
