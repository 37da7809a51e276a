package initramfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const confSample = `# vim:set ft=sh
MODULES=()
BINARIES=()
FILES=()
HOOKS=(base udev autodetect modconf block filesystems keyboard fsck)
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mkinitcpio.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestHooks(t *testing.T) {
	path := writeConf(t, confSample)

	hooks, err := Hooks(path)
	require.NoError(t, err)
	require.Equal(t, []string{"base", "udev", "autodetect", "modconf", "block", "filesystems", "keyboard", "fsck"}, hooks)
}

func TestEnsureHook(t *testing.T) {
	path := writeConf(t, confSample)

	changed, err := EnsureHook(path, "resume", "filesystems")
	require.NoError(t, err)
	require.True(t, changed)

	hooks, err := Hooks(path)
	require.NoError(t, err)
	require.Equal(t, []string{"base", "udev", "autodetect", "modconf", "block", "filesystems", "resume", "keyboard", "fsck"}, hooks)

	// idempotent
	changed, err = EnsureHook(path, "resume", "filesystems")
	require.NoError(t, err)
	require.False(t, changed)

	// other lines survive
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "MODULES=()")
	require.Contains(t, string(content), "# vim:set ft=sh")
}

func TestEnsureHookWithoutAnchor(t *testing.T) {
	path := writeConf(t, "HOOKS=(base udev block)\n")

	changed, err := EnsureHook(path, "resume", "filesystems")
	require.NoError(t, err)
	require.True(t, changed)

	hooks, err := Hooks(path)
	require.NoError(t, err)
	require.Equal(t, []string{"base", "udev", "block", "resume"}, hooks)
}

func TestRemoveHook(t *testing.T) {
	path := writeConf(t, "HOOKS=(base udev block filesystems resume fsck)\n")

	changed, err := RemoveHook(path, "resume")
	require.NoError(t, err)
	require.True(t, changed)

	has, err := HasHook(path, "resume")
	require.NoError(t, err)
	require.False(t, has)

	changed, err = RemoveHook(path, "resume")
	require.NoError(t, err)
	require.False(t, changed)
}

func TestLegacyQuotedForm(t *testing.T) {
	path := writeConf(t, `HOOKS="base udev filesystems"` + "\n")

	changed, err := EnsureHook(path, "resume", "filesystems")
	require.NoError(t, err)
	require.True(t, changed)

	hooks, err := Hooks(path)
	require.NoError(t, err)
	require.Equal(t, []string{"base", "udev", "filesystems", "resume"}, hooks)
}

func TestMissingHooksLine(t *testing.T) {
	path := writeConf(t, "MODULES=()\n")

	_, err := Hooks(path)
	require.Error(t, err)

	_, err = EnsureHook(path, "resume", "filesystems")
	require.Error(t, err)
}
