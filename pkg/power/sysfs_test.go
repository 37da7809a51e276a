package power

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func withSysPower(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	old := sysPowerDir
	sysPowerDir = dir
	t.Cleanup(func() { sysPowerDir = old })
}

func TestSupportsHibernation(t *testing.T) {
	withSysPower(t, map[string]string{"state": "freeze mem disk\n"})
	ok, err := SupportsHibernation()
	require.NoError(t, err)
	require.True(t, ok)

	withSysPower(t, map[string]string{"state": "freeze mem\n"})
	ok, err = SupportsHibernation()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRuntimeResume(t *testing.T) {
	withSysPower(t, map[string]string{
		"resume":        "259:2\n",
		"resume_offset": "533760\n",
	})

	device, offset, err := RuntimeResume()
	require.NoError(t, err)
	require.Equal(t, "259:2", device)
	require.Equal(t, uint64(533760), offset)
}

func TestRuntimeResumeMissingOffsetFile(t *testing.T) {
	withSysPower(t, map[string]string{"resume": "0:0\n"})

	device, offset, err := RuntimeResume()
	require.NoError(t, err)
	require.Equal(t, "0:0", device)
	require.Zero(t, offset)
}

func TestSetRuntimeResume(t *testing.T) {
	withSysPower(t, map[string]string{"resume": "0:0\n", "resume_offset": "0\n"})

	require.NoError(t, SetRuntimeResume("259:2", 533760))

	device, offset, err := RuntimeResume()
	require.NoError(t, err)
	require.Equal(t, "259:2", device)
	require.Equal(t, uint64(533760), offset)
}
