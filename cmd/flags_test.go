package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/config"
	"github.com/hibernatectl/hibernatectl/phase"
)

func testContext(t *testing.T, configPath string) *cli.Context {
	t.Helper()
	app := cli.NewApp()
	flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
	flagSet.String("config", configPath, "")
	flagSet.Bool("dry-run", false, "")
	ctx := cli.NewContext(app, flagSet, nil)
	ctx.Context = context.Background()
	return ctx
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hibernatectl.yaml")
	hibernationYAML := `apiVersion: hibernatectl.io/v1beta1
kind: hibernation
spec:
  swap:
    size: 8GiB
`
	require.NoError(t, os.WriteFile(path, []byte(hibernationYAML), 0o644))

	ctx := testContext(t, path)
	require.NoError(t, initConfig(ctx))

	cfg, ok := ctx.Context.Value(ctxConfigKey{}).(*config.Config)
	require.True(t, ok)
	require.Equal(t, "8GiB", cfg.Spec.Swap.Size)
	// defaults are applied
	require.Equal(t, "/swap/swapfile", cfg.Spec.Swap.File)
}

func TestInitConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hibernatectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiVersion: something/v1\nkind: hibernation\nspec: {}\n"), 0o644))

	require.Error(t, initConfig(testContext(t, path)))
}

func TestInitManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hibernatectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiVersion: hibernatectl.io/v1beta1\nkind: hibernation\nspec: {}\n"), 0o644))

	ctx := testContext(t, path)
	require.NoError(t, initConfig(ctx))
	require.NoError(t, initManager(ctx))

	manager, ok := ctx.Context.Value(ctxManagerKey{}).(*phase.Manager)
	require.True(t, ok)
	require.False(t, manager.DryRun)
}

func TestInitManagerWithoutConfig(t *testing.T) {
	require.Error(t, initManager(testContext(t, "")))
}

func TestActionsChain(t *testing.T) {
	var calls []string
	first := func(*cli.Context) error { calls = append(calls, "first"); return nil }
	second := func(*cli.Context) error { calls = append(calls, "second"); return nil }

	require.NoError(t, actions(first, second)(testContext(t, "")))
	require.Equal(t, []string{"first", "second"}, calls)
}
