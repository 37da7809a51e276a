package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/action"
	"github.com/hibernatectl/hibernatectl/phase"
)

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "Check the hibernation setup against the configuration",
	Flags: []cli.Flag{
		configFlag,
		debugFlag,
		traceFlag,
	},
	Before: actions(initLogging, initConfig, initManager),
	Action: func(ctx *cli.Context) error {
		verifyAction := action.Verify{
			Manager: ctx.Context.Value(ctxManagerKey{}).(*phase.Manager),
		}

		return verifyAction.Run(ctx.Context)
	},
}
