package cmd

import (
	"github.com/urfave/cli/v2"
)

// App is the main urfave/cli.App for hibernatectl
var App = &cli.App{
	Name:  "hibernatectl",
	Usage: "btrfs swapfile hibernation setup tool for limine based systems",
	Flags: []cli.Flag{
		debugFlag,
		traceFlag,
	},
	Commands: []*cli.Command{
		versionCommand,
		applyCommand,
		verifyCommand,
		statusCommand,
		resetCommand,
		monitorCommand,
	},
}
