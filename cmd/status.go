package cmd

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/action"
	"github.com/hibernatectl/hibernatectl/phase"
)

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "Show the hibernation setup state of this system",
	Flags: []cli.Flag{
		configFlag,
		debugFlag,
		traceFlag,
	},
	Before: actions(initLogging, initConfig, initManager),
	Action: func(ctx *cli.Context) error {
		statusAction := action.Status{
			Manager: ctx.Context.Value(ctxManagerKey{}).(*phase.Manager),
			Out:     os.Stdout,
		}

		return statusAction.Run(ctx.Context)
	},
}
