package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/pkg/power"
)

var monitorCommand = &cli.Command{
	Name:  "monitor",
	Usage: "Watch battery and idle state and hibernate on the configured triggers",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Battery percentage at or below which to hibernate while discharging, 0 to disable",
			Value: 5,
		},
		&cli.DurationFlag{
			Name:  "idle-delay",
			Usage: "Hibernate when the session has been idle this long, 0 to disable",
			Value: 30 * time.Minute,
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Poll interval",
			Value: 30 * time.Second,
		},
		debugFlag,
		traceFlag,
	},
	Before: actions(initLogging),
	Action: func(ctx *cli.Context) error {
		bus, err := power.ConnectSystemd()
		if err != nil {
			return err
		}
		defer bus.Close()

		monitor := &power.Monitor{
			Bus:       bus,
			Threshold: ctx.Float64("threshold"),
			IdleDelay: ctx.Duration("idle-delay"),
			Interval:  ctx.Duration("interval"),
		}

		runCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = monitor.Run(runCtx)
		if errors.Is(err, context.Canceled) {
			log.Info("monitor stopped")
			return nil
		}
		return err
	},
}
