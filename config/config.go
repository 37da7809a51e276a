// Package config defines the desired hibernation setup read from
// hibernatectl.yaml and the facts gathered about the live system.
package config

import (
	"fmt"
	"time"

	"github.com/a8m/envsubst"
	"github.com/creasty/defaults"
	validator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/hibernatectl/hibernatectl/pkg/swap"
)

// APIVersion is the only supported configuration version.
const APIVersion = "hibernatectl.io/v1beta1"

// Config describes hibernatectl.yaml.
type Config struct {
	APIVersion string    `yaml:"apiVersion" validate:"eq=hibernatectl.io/v1beta1"`
	Kind       string    `yaml:"kind" validate:"eq=hibernation"`
	Spec       *Spec     `yaml:"spec" validate:"required"`
	Metadata   *Metadata `yaml:"-"`
}

// Spec is the desired state.
type Spec struct {
	Swap       SwapSpec       `yaml:"swap"`
	Bootloader BootloaderSpec `yaml:"bootloader"`
	Initramfs  InitramfsSpec  `yaml:"initramfs"`
	Power      PowerSpec      `yaml:"power"`
	Menu       MenuSpec       `yaml:"menu"`
	Fstab      string         `yaml:"fstab" default:"/etc/fstab"`
}

// SwapSpec configures the swap subvolume and swapfile.
type SwapSpec struct {
	Subvolume string `yaml:"subvolume" default:"/swap" validate:"required"`
	File      string `yaml:"file" default:"/swap/swapfile" validate:"required"`
	// Size is the explicit swapfile size; empty means MemTotal+Headroom.
	Size     string `yaml:"size,omitempty" validate:"omitempty,size"`
	Headroom string `yaml:"headroom" default:"4GiB" validate:"size"`
}

// BootloaderSpec locates the Limine configuration.
type BootloaderSpec struct {
	Config        string `yaml:"config" default:"/boot/limine.conf" validate:"required"`
	UpdateCommand string `yaml:"updateCommand" default:"limine-update"`
}

// InitramfsSpec configures the mkinitcpio hook injection.
type InitramfsSpec struct {
	Config            string `yaml:"config" default:"/etc/mkinitcpio.conf" validate:"required"`
	Hook              string `yaml:"hook" default:"resume" validate:"required"`
	After             string `yaml:"after" default:"filesystems"`
	RegenerateCommand string `yaml:"regenerateCommand" default:"mkinitcpio -P"`
}

// PowerSpec configures logind handlers, sleep behavior and the monitor.
type PowerSpec struct {
	HandlePowerKey  string         `yaml:"handlePowerKey" default:"hibernate"`
	HandleLidSwitch string         `yaml:"handleLidSwitch" default:"suspend-then-hibernate"`
	IdleAction      string         `yaml:"idleAction" default:"hibernate"`
	IdleDelay       string         `yaml:"idleDelay" default:"30m" validate:"duration"`
	LowBattery      LowBatterySpec `yaml:"lowBattery"`
}

// LowBatterySpec configures the battery trigger of the monitor.
type LowBatterySpec struct {
	Threshold int    `yaml:"threshold" default:"5" validate:"min=0,max=100"`
	Interval  string `yaml:"interval" default:"30s" validate:"duration"`
}

// MenuSpec configures the application menu patch.
type MenuSpec struct {
	Paths   []string `yaml:"paths"`
	Entry   string   `yaml:"entry" default:"Hibernate"`
	Command string   `yaml:"command" default:"systemctl hibernate"`
}

// UnmarshalYAML fills in defaults after decoding.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	c.Metadata = &Metadata{}
	c.Spec = &Spec{}

	type config Config
	yc := (*config)(c)
	if err := unmarshal(yc); err != nil {
		return err
	}

	return defaults.Set(c)
}

// ParseBytes expands environment variables in the raw yaml and decodes
// and validates it.
func ParseBytes(raw []byte) (*Config, error) {
	expanded, err := envsubst.Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("expand environment variables: %w", err)
	}

	cfg := &Config{}
	if err := yaml.UnmarshalStrict(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs a configuration sanity check.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return err
	}
	if err := v.RegisterValidation("size", validateSize); err != nil {
		return err
	}
	return v.Struct(c)
}

func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

func validateSize(fl validator.FieldLevel) bool {
	_, err := swap.ParseSize(fl.Field().String())
	return err == nil
}

// SwapSize returns the desired swapfile size in bytes given the amount
// of installed memory.
func (s SwapSpec) SwapSize(memTotal uint64) (uint64, error) {
	if s.Size != "" {
		return swap.ParseSize(s.Size)
	}
	headroom, err := swap.ParseSize(s.Headroom)
	if err != nil {
		return 0, err
	}
	return memTotal + headroom, nil
}

// IdleDelayDuration returns the parsed idle delay.
func (p PowerSpec) IdleDelayDuration() time.Duration {
	d, _ := time.ParseDuration(p.IdleDelay)
	return d
}

// IntervalDuration returns the parsed monitor poll interval.
func (b LowBatterySpec) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(b.Interval)
	return d
}

// LogindSettings returns the [Login] drop-in settings for the configured
// handlers.
func (p PowerSpec) LogindSettings() map[string]string {
	settings := map[string]string{}
	if p.HandlePowerKey != "" {
		settings["HandlePowerKey"] = p.HandlePowerKey
	}
	if p.HandleLidSwitch != "" {
		settings["HandleLidSwitch"] = p.HandleLidSwitch
	}
	if p.IdleAction != "" && p.IdleAction != "ignore" {
		settings["IdleAction"] = p.IdleAction
		settings["IdleActionSec"] = fmt.Sprintf("%d", int(p.IdleDelayDuration().Seconds()))
	}
	return settings
}
