package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/action"
	"github.com/hibernatectl/hibernatectl/phase"
)

var resetCommand = &cli.Command{
	Name:  "reset",
	Usage: "Undo the hibernation setup",
	Flags: []cli.Flag{
		configFlag,
		dryRunFlag,
		forceFlag,
		debugFlag,
		traceFlag,
	},
	Before: actions(initLogging, initConfig, initManager),
	Action: func(ctx *cli.Context) error {
		resetAction := action.Reset{
			Manager: ctx.Context.Value(ctxManagerKey{}).(*phase.Manager),
			Stdout:  os.Stdout,
			Force:   ctx.Bool("force"),
		}

		if err := resetAction.Run(ctx.Context); err != nil {
			if lf, ok := ctx.Context.Value(ctxLogFileKey{}).(string); ok {
				return fmt.Errorf("reset failed - log file saved to %s: %w", lf, err)
			}
			return fmt.Errorf("reset failed: %w", err)
		}

		return nil
	},
}
