package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"summon/internal/input"
	"summon/pkg/core"
)

// fileConfig mirrors the on-disk layout. The misspelled "settigs" table is
// accepted from older config files.
type fileConfig struct {
	Settings *fileSettings `toml:"settings" yaml:"settings" json:"settings"`
	Settigs  *fileSettings `toml:"settigs"  yaml:"settigs"  json:"settigs"`
}

type fileSettings struct {
	Interval         *int64   `toml:"interval"          yaml:"interval"          json:"interval"`
	AppPath          *string  `toml:"app_path"          yaml:"app_path"          json:"app_path"`
	AppName          *string  `toml:"app_name"          yaml:"app_name"          json:"app_name"`
	DetectedKey      *string  `toml:"detected_key"      yaml:"detected_key"      json:"detected_key"`
	DetectedKeys     []string `toml:"detected_keys"     yaml:"detected_keys"     json:"detected_keys"`
	HideMethod       *string  `toml:"hide_method"       yaml:"hide_method"       json:"hide_method"`
	Backend          *string  `toml:"backend"           yaml:"backend"           json:"backend"`
	CommandTimeout   *int64   `toml:"command_timeout"   yaml:"command_timeout"   json:"command_timeout"`
	SpecialWorkspace *string  `toml:"special_workspace" yaml:"special_workspace" json:"special_workspace"`
	NotifyCommand    *string  `toml:"notify_command"    yaml:"notify_command"    json:"notify_command"`
	Devices          []string `toml:"devices"           yaml:"devices"           json:"devices"`
}

// LoadFromFile reads and resolves a configuration file. A missing file is
// reported with an error wrapping os.ErrNotExist.
func LoadFromFile(path string, log core.Logger) (*Config, error) {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	cfg, err := Parse(data, formatFromPath(path), log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	return ""
}

// Parse decodes data in the given format ("toml", "yaml", "json", or empty to
// auto-detect) and resolves it on top of the defaults.
func Parse(data []byte, format string, log core.Logger) (*Config, error) {
	var fc fileConfig
	if err := decode(data, format, &fc); err != nil {
		return nil, err
	}
	return resolve(&fc, log), nil
}

func decode(data []byte, format string, fc *fileConfig) error {
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), fc); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), fc); err == nil {
			return nil
		}
		*fc = fileConfig{}
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(data, fc); err == nil {
				return nil
			}
			*fc = fileConfig{}
		}
		if err := yaml.Unmarshal(data, fc); err == nil {
			return nil
		}
		return fmt.Errorf("unable to parse config (tried TOML, JSON, YAML)")
	}
	return nil
}

// resolve applies file values over the defaults. Invalid values keep the
// default and are logged.
func resolve(fc *fileConfig, log core.Logger) *Config {
	cfg := DefaultConfig()

	s := fc.Settings
	if s == nil {
		s = fc.Settigs
	}
	if s == nil {
		return cfg
	}

	if s.Interval != nil {
		if *s.Interval > 0 {
			cfg.DoublePressInterval = time.Duration(*s.Interval) * time.Millisecond
		} else {
			log.Warn("Ignoring non-positive interval", "interval", *s.Interval)
		}
	}
	if s.AppPath != nil && strings.TrimSpace(*s.AppPath) != "" {
		cfg.AppLaunchPath = *s.AppPath
	}
	if s.AppName != nil && strings.TrimSpace(*s.AppName) != "" {
		cfg.AppMatchPattern = *s.AppName
	}

	keyName := ""
	if s.DetectedKey != nil {
		keyName = *s.DetectedKey
	} else if len(s.DetectedKeys) > 0 {
		keyName = s.DetectedKeys[0]
	}
	if keyName != "" {
		if k, ok := input.ParseKey(keyName); ok {
			cfg.DetectKey = k
		} else {
			log.Warn("Unknown key name, using default", "key", keyName, "default", DefaultKey.String())
		}
	}

	if s.HideMethod != nil {
		if h, ok := ParseHideMethod(*s.HideMethod); ok {
			cfg.HideMethod = h
		} else {
			log.Warn("Unknown hide_method, using auto", "hide_method", *s.HideMethod)
		}
	}
	if s.Backend != nil {
		if b, ok := ParseBackend(*s.Backend); ok {
			cfg.Backend = b
		} else {
			log.Warn("Unknown backend, using auto", "backend", *s.Backend)
		}
	}
	if s.CommandTimeout != nil && *s.CommandTimeout > 0 {
		cfg.CommandTimeout = time.Duration(*s.CommandTimeout) * time.Millisecond
	}
	if s.SpecialWorkspace != nil && strings.TrimSpace(*s.SpecialWorkspace) != "" {
		cfg.SpecialWorkspace = strings.TrimSpace(*s.SpecialWorkspace)
	}
	if s.NotifyCommand != nil {
		cfg.NotifyCommand = *s.NotifyCommand
	}
	if len(s.Devices) > 0 {
		cfg.Devices = append([]string(nil), s.Devices...)
	}

	return cfg
}

// Save writes cfg as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	interval := cfg.DoublePressInterval.Milliseconds()
	timeout := cfg.CommandTimeout.Milliseconds()
	key := cfg.DetectKey.String()
	hide := cfg.HideMethod.String()
	backend := string(cfg.Backend)

	fc := fileConfig{Settings: &fileSettings{
		Interval:         &interval,
		AppPath:          &cfg.AppLaunchPath,
		AppName:          &cfg.AppMatchPattern,
		DetectedKey:      &key,
		HideMethod:       &hide,
		Backend:          &backend,
		CommandTimeout:   &timeout,
		SpecialWorkspace: &cfg.SpecialWorkspace,
		NotifyCommand:    &cfg.NotifyCommand,
		Devices:          cfg.Devices,
	}}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(fc); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	return nil
}
