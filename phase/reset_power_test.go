package phase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibernatectl/hibernatectl/pkg/power"
	"github.com/hibernatectl/hibernatectl/pkg/run"
)

func TestResetPowerPolicyLeavesForeignDropIn(t *testing.T) {
	dir := t.TempDir()

	origLogind, origSleep, origUnit := logindDropInPath, sleepDropInPath, power.MonitorUnitPath
	t.Cleanup(func() {
		logindDropInPath, sleepDropInPath, power.MonitorUnitPath = origLogind, origSleep, origUnit
	})
	logindDropInPath = filepath.Join(dir, "logind.conf.d", "10-hibernatectl.conf")
	sleepDropInPath = filepath.Join(dir, "sleep.conf.d", "10-hibernatectl.conf")
	power.MonitorUnitPath = filepath.Join(dir, power.MonitorUnit)

	// a logind drop-in without the marker was written by someone else
	foreign := "[Login]\nHandleLidSwitch=ignore\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(logindDropInPath), 0755))
	require.NoError(t, os.WriteFile(logindDropInPath, []byte(foreign), 0644))

	managed := &power.DropIn{
		Path:     sleepDropInPath,
		Section:  "Sleep",
		Settings: map[string]string{"AllowHibernation": "yes"},
	}
	changed, err := managed.Write()
	require.NoError(t, err)
	require.True(t, changed)

	cfg := testConfig()
	m, err := NewManager(cfg)
	require.NoError(t, err)
	m.Runner = &run.Fake{}
	m.AddPhase(&ResetPowerPolicy{})

	require.NoError(t, m.Run(context.Background()))

	// the foreign file survives, the managed one is gone
	content, err := os.ReadFile(logindDropInPath)
	require.NoError(t, err)
	require.Equal(t, foreign, string(content))
	require.NoFileExists(t, sleepDropInPath)
}
