// Package backup creates timestamped safety copies of system files before
// they are modified and restores them on reset.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Stamp is the timestamp layout used in backup file names.
const Stamp = "20060102T150405"

// now is replaceable in tests.
var now = time.Now

// Create copies the file to <path>.bak-<timestamp> next to the original,
// preserving its mode, and returns the backup path.
func Create(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	target := fmt.Sprintf("%s.bak-%s", path, now().Format(Stamp))
	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	log.Debugf("backed up %s as %s", path, target)
	return target, nil
}

// Latest returns the most recent backup of the file, or "" when none exist.
func Latest(path string) (string, error) {
	matches, err := filepath.Glob(path + ".bak-*")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	// names sort chronologically thanks to the timestamp layout
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// Restore copies the most recent backup of the file back over the original
// and reports whether a backup was found.
func Restore(path string) (bool, error) {
	latest, err := Latest(path)
	if err != nil || latest == "" {
		return false, err
	}

	src, err := os.Open(latest)
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	if err := dst.Close(); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	log.Infof("restored %s from %s", path, latest)
	return true, nil
}
