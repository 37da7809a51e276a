package phase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySwap(t *testing.T) {
	fstab := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, os.WriteFile(fstab, []byte("/swap/swapfile none swap defaults 0 0\n"), 0644))

	cfg := testConfig()
	cfg.Spec.Fstab = fstab
	cfg.Spec.Swap.File = "/swap/swapfile"
	cfg.Metadata.SwapfileExists = true
	cfg.Metadata.SwapfileSize = 4096
	cfg.Metadata.DesiredSwapSize = 4096
	cfg.Metadata.SwapActive = true

	report := &Report{}
	p := &VerifySwap{Report: report}
	require.NoError(t, p.Prepare(cfg))
	require.NoError(t, p.Run(context.Background()))

	require.False(t, report.Failed())
	require.Len(t, report.Results(), 3)
}

func TestVerifySwapFailures(t *testing.T) {
	cfg := testConfig()
	cfg.Spec.Fstab = filepath.Join(t.TempDir(), "fstab")
	cfg.Spec.Swap.File = "/swap/swapfile"
	cfg.Metadata.SwapfileExists = true
	cfg.Metadata.SwapfileSize = 1024
	cfg.Metadata.DesiredSwapSize = 4096

	report := &Report{}
	p := &VerifySwap{Report: report}
	require.NoError(t, p.Prepare(cfg))
	require.NoError(t, p.Run(context.Background()))

	require.True(t, report.Failed())
	for _, res := range report.Results() {
		require.Error(t, res.Err, res.Check)
	}
}
