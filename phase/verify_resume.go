package phase

import (
	"context"
	"fmt"

	"github.com/hibernatectl/hibernatectl/pkg/btrfs"
	"github.com/hibernatectl/hibernatectl/pkg/device"
	"github.com/hibernatectl/hibernatectl/pkg/limine"
	"github.com/hibernatectl/hibernatectl/pkg/power"
)

// VerifyResume checks the persisted and runtime resume parameters
// against the swapfile's actual location.
type VerifyResume struct {
	GenericPhase
	Report *Report
}

// Title for the phase
func (p *VerifyResume) Title() string {
	return "Verify resume parameters"
}

// Run the phase
func (p *VerifyResume) Run(ctx context.Context) error {
	meta := p.Config.Metadata
	spec := p.Config.Spec

	if !meta.SwapfileExists {
		p.Report.Fail("resume target", "no swapfile to resume from")
		return nil
	}

	uuid, err := device.UUID(meta.SwapFSDevice)
	if err != nil {
		return fmt.Errorf("resolve resume device: %w", err)
	}
	majmin, err := device.MajMin(meta.SwapFSDevice)
	if err != nil {
		return err
	}
	offset, err := btrfs.ResumeOffset(ctx, p.Runner(), spec.Swap.File)
	if err != nil {
		return fmt.Errorf("resolve resume offset: %w", err)
	}
	meta.ResumeUUID = uuid
	meta.ResumeMajMin = majmin
	meta.ResumeOffset = offset
	p.Report.Pass("resume target")

	wantResume := "UUID=" + uuid
	wantOffset := fmt.Sprintf("%d", offset)

	file, err := limine.Load(spec.Bootloader.Config)
	if err != nil {
		return err
	}
	cmdlines, err := file.Cmdlines()
	if err != nil {
		return err
	}
	if len(cmdlines) == 0 {
		p.Report.Fail("bootloader cmdline", "%s carries no kernel command line", spec.Bootloader.Config)
	} else {
		ok := true
		for _, params := range cmdlines {
			if params.GetValue("resume") != wantResume || params.GetValue("resume_offset") != wantOffset {
				ok = false
			}
		}
		if ok {
			p.Report.Pass("bootloader cmdline")
		} else {
			p.Report.Fail("bootloader cmdline", "%s does not carry resume=%s resume_offset=%s on every entry",
				spec.Bootloader.Config, wantResume, wantOffset)
		}
	}

	if meta.RuntimeCmdline.GetValue("resume") == wantResume {
		p.Report.Pass("booted cmdline")
	} else {
		p.Report.Fail("booted cmdline", "running kernel was booted with resume=%q, want %q (reboot pending?)",
			meta.RuntimeCmdline.GetValue("resume"), wantResume)
	}

	rtDevice, rtOffset, err := power.RuntimeResume()
	if err != nil {
		return err
	}
	if rtDevice == majmin && rtOffset == offset {
		p.Report.Pass("runtime resume")
	} else {
		p.Report.Fail("runtime resume", "/sys/power has %s offset %d, want %s offset %d",
			rtDevice, rtOffset, majmin, offset)
	}

	return nil
}
