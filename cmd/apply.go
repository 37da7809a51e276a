package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/action"
	"github.com/hibernatectl/hibernatectl/phase"
)

var applyCommand = &cli.Command{
	Name:  "apply",
	Usage: "Apply the hibernation configuration to this system",
	Flags: []cli.Flag{
		configFlag,
		dryRunFlag,
		forceFlag,
		&cli.BoolFlag{
			Name:  "no-initramfs",
			Usage: "Do not regenerate the initramfs",
		},
		debugFlag,
		traceFlag,
	},
	Before: actions(initLogging, initConfig, initManager),
	Action: func(ctx *cli.Context) error {
		manager := ctx.Context.Value(ctxManagerKey{}).(*phase.Manager)

		if !manager.DryRun && !ctx.Bool("force") {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("apply requires --force when not running interactively")
			}
			confirmed := false
			prompt := &survey.Confirm{
				Message: "Going to set up hibernation on this system, modifying the bootloader, initramfs and power configuration. Are you sure?",
			}
			_ = survey.AskOne(prompt, &confirmed)
			if !confirmed {
				return fmt.Errorf("confirmation or --force required to proceed")
			}
		}

		applyAction := action.NewApply(action.ApplyOptions{
			Manager:     manager,
			NoInitramfs: ctx.Bool("no-initramfs"),
		})

		if err := applyAction.Run(ctx.Context); err != nil {
			if lf, ok := ctx.Context.Value(ctxLogFileKey{}).(string); ok {
				return fmt.Errorf("apply failed - log file saved to %s: %w", lf, err)
			}
			return fmt.Errorf("apply failed: %w", err)
		}

		return nil
	},
}
