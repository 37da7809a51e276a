package phase

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hibernatectl/hibernatectl/pkg/cmdline"
	"github.com/hibernatectl/hibernatectl/pkg/initramfs"
	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

// procCmdline is replaceable in tests.
var procCmdline = "/proc/cmdline"

// GatherFacts collects the current system state the reconciliation
// phases compare against.
type GatherFacts struct {
	GenericPhase
}

// Title for the phase
func (p *GatherFacts) Title() string {
	return "Gather facts"
}

// Run the phase
func (p *GatherFacts) Run(_ context.Context) error {
	meta := p.Config.Metadata
	spec := p.Config.Spec

	memTotal, err := swap.MemTotal()
	if err != nil {
		return err
	}
	meta.MemTotal = memTotal

	desired, err := spec.Swap.SwapSize(memTotal)
	if err != nil {
		return err
	}
	meta.DesiredSwapSize = desired
	log.Infof("%s of memory installed, wanting a %s swapfile", swap.FormatSize(memTotal), swap.FormatSize(desired))

	if info, err := os.Stat(spec.Swap.File); err == nil {
		meta.SwapfileExists = true
		meta.SwapfileSize = uint64(info.Size())
		log.Infof("existing swapfile %s is %s", spec.Swap.File, swap.FormatSize(meta.SwapfileSize))
	} else if !os.IsNotExist(err) {
		return err
	} else {
		log.Infof("no swapfile at %s", spec.Swap.File)
	}

	entry, err := swap.Find(spec.Swap.File)
	if err != nil {
		return err
	}
	meta.SwapActive = entry != nil

	raw, err := os.ReadFile(procCmdline)
	if err != nil {
		return err
	}
	runtime, err := cmdline.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", procCmdline, err)
	}
	meta.RuntimeCmdline = runtime
	if resume := runtime.GetValue("resume"); resume != "" {
		log.Debugf("booted with resume=%s resume_offset=%s", resume, runtime.GetValue("resume_offset"))
	}

	hookPresent, err := initramfs.HasHook(spec.Initramfs.Config, spec.Initramfs.Hook)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("initramfs configuration %s not found", spec.Initramfs.Config)
		}
		return err
	}
	meta.HookPresent = hookPresent

	return nil
}
