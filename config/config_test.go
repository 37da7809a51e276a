package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalYaml() []byte {
	return []byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec: {}
`)
}

func TestParseBytesDefaults(t *testing.T) {
	cfg, err := ParseBytes(minimalYaml())
	require.NoError(t, err)

	require.Equal(t, "/swap", cfg.Spec.Swap.Subvolume)
	require.Equal(t, "/swap/swapfile", cfg.Spec.Swap.File)
	require.Equal(t, "4GiB", cfg.Spec.Swap.Headroom)
	require.Equal(t, "/boot/limine.conf", cfg.Spec.Bootloader.Config)
	require.Equal(t, "/etc/mkinitcpio.conf", cfg.Spec.Initramfs.Config)
	require.Equal(t, "resume", cfg.Spec.Initramfs.Hook)
	require.Equal(t, "hibernate", cfg.Spec.Power.HandlePowerKey)
	require.Equal(t, 5, cfg.Spec.Power.LowBattery.Threshold)
	require.Equal(t, "/etc/fstab", cfg.Spec.Fstab)
	require.NotNil(t, cfg.Metadata)
}

func TestParseBytesRejectsWrongKind(t *testing.T) {
	_, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: cluster
spec: {}
`))
	require.Error(t, err)
}

func TestParseBytesRejectsUnknownFields(t *testing.T) {
	_, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  swapp: {}
`))
	require.Error(t, err)
}

func TestParseBytesRejectsBadDuration(t *testing.T) {
	_, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  power:
    idleDelay: sometimes
`))
	require.Error(t, err)
}

func TestParseBytesRejectsBadSize(t *testing.T) {
	_, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  swap:
    size: enormous
`))
	require.Error(t, err)
}

func TestParseBytesEnvSubstitution(t *testing.T) {
	t.Setenv("SWAP_SIZE", "40GiB")
	cfg, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  swap:
    size: $SWAP_SIZE
`))
	require.NoError(t, err)
	require.Equal(t, "40GiB", cfg.Spec.Swap.Size)
}

func TestSwapSize(t *testing.T) {
	spec := SwapSpec{Headroom: "4GiB"}
	size, err := spec.SwapSize(32 << 30)
	require.NoError(t, err)
	require.Equal(t, uint64(36)<<30, size)

	spec.Size = "16GiB"
	size, err = spec.SwapSize(32 << 30)
	require.NoError(t, err)
	require.Equal(t, uint64(16)<<30, size)
}

func TestLogindSettings(t *testing.T) {
	cfg, err := ParseBytes(minimalYaml())
	require.NoError(t, err)

	settings := cfg.Spec.Power.LogindSettings()
	require.Equal(t, "hibernate", settings["HandlePowerKey"])
	require.Equal(t, "suspend-then-hibernate", settings["HandleLidSwitch"])
	require.Equal(t, "hibernate", settings["IdleAction"])
	require.Equal(t, "1800", settings["IdleActionSec"])
}

func TestLogindSettingsIgnoreIdle(t *testing.T) {
	cfg, err := ParseBytes([]byte(`apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  power:
    idleAction: ignore
`))
	require.NoError(t, err)

	settings := cfg.Spec.Power.LogindSettings()
	require.NotContains(t, settings, "IdleAction")
	require.NotContains(t, settings, "IdleActionSec")
}
