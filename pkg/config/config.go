package config

import (
	"fmt"
	"strings"
	"time"

	"summon/internal/input"
)

// HideMethod selects how a visible window is hidden on compositors.
type HideMethod int

const (
	// HideAuto uses the compositor's native mechanism.
	HideAuto HideMethod = iota
	// HideScratchpadOrSpecial parks the window on the Sway scratchpad or a
	// Hyprland special workspace.
	HideScratchpadOrSpecial
	// HideNone never hides; the toggle only focuses.
	HideNone
)

func ParseHideMethod(s string) (HideMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HideAuto, true
	case "scratchpad", "special", "scratchpad_or_special":
		return HideScratchpadOrSpecial, true
	case "none", "off":
		return HideNone, true
	}
	return HideAuto, false
}

func (h HideMethod) String() string {
	switch h {
	case HideScratchpadOrSpecial:
		return "scratchpad"
	case HideNone:
		return "none"
	default:
		return "auto"
	}
}

func (h HideMethod) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Backend forces a window backend instead of detecting one.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendX11     Backend = "x11"
	BackendWayland Backend = "wayland"
)

func ParseBackend(s string) (Backend, bool) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, true
	case BackendAuto, BackendX11, BackendWayland:
		return b, true
	}
	return BackendAuto, false
}

// Config is the resolved application configuration. It is not modified
// after loading.
type Config struct {
	DoublePressInterval time.Duration `yaml:"interval"          json:"interval"`
	AppLaunchPath       string        `yaml:"app_path"          json:"app_path"`
	AppMatchPattern     string        `yaml:"app_name"          json:"app_name"`
	DetectKey           input.Key     `yaml:"detected_key"      json:"detected_key"`
	HideMethod          HideMethod    `yaml:"hide_method"       json:"hide_method"`
	Backend             Backend       `yaml:"backend"           json:"backend"`
	CommandTimeout      time.Duration `yaml:"command_timeout"   json:"command_timeout"`
	SpecialWorkspace    string        `yaml:"special_workspace" json:"special_workspace"`
	NotifyCommand       string        `yaml:"notify_command"    json:"notify_command"`
	Devices             []string      `yaml:"devices"           json:"devices"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Validate rejects values the daemon cannot work with.
func (c *Config) Validate() error {
	if c.DoublePressInterval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.DoublePressInterval)
	}
	if strings.TrimSpace(c.AppLaunchPath) == "" {
		return fmt.Errorf("app_path must not be empty")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	return nil
}
