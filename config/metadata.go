package config

import (
	"github.com/hibernatectl/hibernatectl/pkg/cmdline"
)

// Metadata holds facts gathered about the live system during a run.
type Metadata struct {
	// DetectEnvironment
	Distro        string
	KernelVersion string
	Executable    string

	// ValidateHost
	RootFSType   string
	RootDevice   string
	SwapFSDevice string

	// GatherFacts
	MemTotal        uint64
	DesiredSwapSize uint64
	SwapfileExists  bool
	SwapfileSize    uint64
	SwapActive      bool
	RuntimeCmdline  cmdline.Params
	HookPresent     bool

	// ResolveResume
	ResumeUUID   string
	ResumeMajMin string
	ResumeOffset uint64

	// bookkeeping for the summary
	Changes []string
}

// RecordChange notes an applied change for the end-of-run summary.
func (m *Metadata) RecordChange(what string) {
	m.Changes = append(m.Changes, what)
}
