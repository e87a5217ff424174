package config

import (
	"time"

	"summon/internal/input"
)

const (
	DefaultInterval         = 300 * time.Millisecond
	DefaultAppPath          = "/usr/local/bin/alacritty"
	DefaultAppName          = "class=Alacritty"
	DefaultKey              = input.KeyCtrlLeft
	DefaultCommandTimeout   = 3 * time.Second
	DefaultSpecialWorkspace = "summon"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DoublePressInterval: DefaultInterval,
		AppLaunchPath:       DefaultAppPath,
		AppMatchPattern:     DefaultAppName,
		DetectKey:           DefaultKey,
		HideMethod:          HideAuto,
		Backend:             BackendAuto,
		CommandTimeout:      DefaultCommandTimeout,
		SpecialWorkspace:    DefaultSpecialWorkspace,
	}
}
