package btrfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibernatectl/hibernatectl/pkg/run"
)

const mountinfoSample = `22 67 0:21 / /proc rw,nosuid,nodev,noexec,relatime shared:12 - proc proc rw
67 1 0:26 /@ / rw,noatime shared:1 - btrfs /dev/nvme0n1p2 rw,compress=zstd:1,subvol=/@
68 67 0:26 /@home /home rw,noatime shared:33 - btrfs /dev/nvme0n1p2 rw,compress=zstd:1,subvol=/@home
69 67 0:26 /@swap /swap rw,noatime shared:34 - btrfs /dev/nvme0n1p2 rw,subvol=/@swap
70 67 259:1 / /boot rw,relatime shared:35 - vfat /dev/nvme0n1p1 rw
`

func withMountinfo(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mountinfo")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	old := mountinfoPath
	mountinfoPath = path
	t.Cleanup(func() { mountinfoPath = old })
}

func TestMountFor(t *testing.T) {
	withMountinfo(t, mountinfoSample)

	t.Run("root", func(t *testing.T) {
		m, err := MountFor("/etc/mkinitcpio.conf")
		require.NoError(t, err)
		require.Equal(t, "btrfs", m.FSType)
		require.Equal(t, "/dev/nvme0n1p2", m.Source)
		require.Equal(t, "/@", m.SubvolPath)
	})

	t.Run("longest prefix wins", func(t *testing.T) {
		m, err := MountFor("/swap/swapfile")
		require.NoError(t, err)
		require.Equal(t, "/swap", m.Mountpoint)
		require.Equal(t, "/@swap", m.SubvolPath)
	})

	t.Run("exact mountpoint", func(t *testing.T) {
		m, err := MountFor("/boot")
		require.NoError(t, err)
		require.Equal(t, "vfat", m.FSType)
	})

	t.Run("no similarly prefixed mountpoint", func(t *testing.T) {
		m, err := MountFor("/boots")
		require.NoError(t, err)
		require.Equal(t, "/", m.Mountpoint)
	})
}

func TestParseMountinfoEscapes(t *testing.T) {
	m, ok := parseMountinfoLine(`71 67 0:30 / /mnt/usb\040drive rw - ext4 /dev/sdb1 rw`)
	require.True(t, ok)
	require.Equal(t, "/mnt/usb drive", m.Mountpoint)
}

func TestCreateSubvolume(t *testing.T) {
	fake := &run.Fake{}
	require.NoError(t, CreateSubvolume(context.Background(), fake, "/swap"))
	require.Equal(t, []string{"btrfs subvolume create /swap", "chattr +C /swap"}, fake.Commands)
}

func TestResumeOffset(t *testing.T) {
	t.Run("map-swapfile", func(t *testing.T) {
		fake := &run.Fake{Results: map[string]run.FakeResult{
			"btrfs inspect-internal map-swapfile -r /swap/swapfile": {Output: "533760"},
		}}
		offset, err := ResumeOffset(context.Background(), fake, "/swap/swapfile")
		require.NoError(t, err)
		require.Equal(t, uint64(533760), offset)
	})

	t.Run("garbage output", func(t *testing.T) {
		fake := &run.Fake{Results: map[string]run.FakeResult{
			"btrfs inspect-internal map-swapfile -r /swap/swapfile": {Output: "not a number"},
		}}
		_, err := ResumeOffset(context.Background(), fake, "/swap/swapfile")
		require.Error(t, err)
	})

	t.Run("fallback fails for missing file", func(t *testing.T) {
		fake := &run.Fake{Results: map[string]run.FakeResult{
			"btrfs": {Err: errors.New("unknown command")},
		}}
		_, err := ResumeOffset(context.Background(), fake, filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}
