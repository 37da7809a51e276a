package action

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hibernatectl/hibernatectl/phase"
	"github.com/hibernatectl/hibernatectl/pkg/limine"
	"github.com/hibernatectl/hibernatectl/pkg/power"
	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

type Status struct {
	// Manager is the phase manager
	Manager *phase.Manager
	Out     io.Writer
}

// Run the Status action
func (s Status) Run(ctx context.Context) error {
	s.Manager.AddPhase(
		&phase.DetectEnvironment{},
		&phase.ValidateHost{},
		&phase.GatherFacts{},
	)
	if err := s.Manager.Run(ctx); err != nil {
		return err
	}

	meta := s.Manager.Config.Metadata
	spec := s.Manager.Config.Spec

	s.row("distro", meta.Distro)
	s.row("kernel", meta.KernelVersion)
	s.row("memory", swap.FormatSize(meta.MemTotal))

	if meta.SwapfileExists {
		s.row("swapfile", fmt.Sprintf("%s (%s, want %s)", spec.Swap.File,
			swap.FormatSize(meta.SwapfileSize), swap.FormatSize(meta.DesiredSwapSize)))
	} else {
		s.row("swapfile", "not created")
	}
	s.row("swap active", fmt.Sprintf("%v", meta.SwapActive))

	registered, err := swap.InFstab(spec.Fstab, spec.Swap.File)
	if err != nil {
		return err
	}
	s.row("fstab entry", fmt.Sprintf("%v", registered))

	if file, err := limine.Load(spec.Bootloader.Config); err == nil {
		if cmdlines, err := file.Cmdlines(); err == nil && len(cmdlines) > 0 {
			s.row("persisted resume", valueOrUnset(cmdlines[0].GetValue("resume")))
			s.row("persisted resume_offset", valueOrUnset(cmdlines[0].GetValue("resume_offset")))
		}
	} else if os.IsNotExist(err) {
		s.row("bootloader config", "not found")
	} else {
		return err
	}

	s.row("booted resume", valueOrUnset(meta.RuntimeCmdline.GetValue("resume")))

	device, offset, err := power.RuntimeResume()
	if err != nil {
		return err
	}
	s.row("runtime resume", fmt.Sprintf("%s offset %d", device, offset))

	s.row("initramfs hook", fmt.Sprintf("%v", meta.HookPresent))

	if _, err := os.Stat(power.MonitorUnitPath); err == nil {
		s.row("monitor unit", "installed")
	} else {
		s.row("monitor unit", "not installed")
	}

	return nil
}

func (s Status) row(key, value string) {
	fmt.Fprintf(s.Out, "%-24s %s\n", key+":", value)
}

func valueOrUnset(v string) string {
	if v == "" {
		return "unset"
	}
	return v
}
