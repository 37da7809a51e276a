package phase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibernatectl/hibernatectl/pkg/run"
)

func TestProvisionSwapfileRegistersFstab(t *testing.T) {
	fstab := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, os.WriteFile(fstab, []byte("UUID=aaaa / btrfs rw 0 0\n"), 0644))

	cfg := testConfig()
	cfg.Spec.Fstab = fstab
	cfg.Spec.Swap.File = "/swap/swapfile"
	cfg.Metadata.SwapfileExists = true
	cfg.Metadata.SwapfileSize = 4 << 30
	cfg.Metadata.DesiredSwapSize = 4 << 30
	cfg.Metadata.SwapActive = true

	fake := &run.Fake{}
	p := &ProvisionSwapfile{}
	p.SetRunner(fake)
	require.NoError(t, p.Prepare(cfg))
	require.NoError(t, p.Run(context.Background()))

	content, err := os.ReadFile(fstab)
	require.NoError(t, err)
	require.Contains(t, string(content), "/swap/swapfile none swap defaults 0 0\n")
	require.Contains(t, cfg.Metadata.Changes, "register swapfile in "+fstab)
	// swapfile and swap state were already converged
	require.Empty(t, fake.Commands)
}

func TestProvisionSwapfileDryRunReportsAllChanges(t *testing.T) {
	fstab := filepath.Join(t.TempDir(), "fstab")

	cfg := testConfig()
	cfg.Spec.Fstab = fstab
	cfg.Spec.Swap.File = "/swap/swapfile"
	cfg.Metadata.DesiredSwapSize = 4 << 30

	m, err := NewManager(cfg)
	require.NoError(t, err)
	m.DryRun = true

	fake := &run.Fake{}
	p := &ProvisionSwapfile{}
	p.SetManager(m)
	p.SetRunner(fake)
	require.NoError(t, p.Prepare(cfg))
	require.NoError(t, p.Run(context.Background()))

	require.Empty(t, fake.Commands)
	require.NoFileExists(t, fstab)
	require.Contains(t, cfg.Metadata.Changes, "register swapfile in "+fstab)
	require.Contains(t, cfg.Metadata.Changes, "activate swap on /swap/swapfile")
}
