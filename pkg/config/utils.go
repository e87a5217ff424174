package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"summon/internal/input"
	"summon/pkg/core"
)

const (
	appDirName     = "summon"
	configFileName = "config.toml"

	// EnvConfig names a config file to use when --config is not given.
	EnvConfig = "SUMMON_CONFIG"
)

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// FindConfig resolves the configuration. An explicit path must load; the
// SUMMON_CONFIG file and the per-user file are tried in order and skipped
// with a warning when broken. Environment overrides are applied last.
func FindConfig(providedPath string, log core.Logger) (*Config, error) {
	log.Info("Looking for configuration", "provided_path", providedPath)

	cfg, err := loadLayers(providedPath, log)
	if err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg, os.LookupEnv, log)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Debug("Configuration resolved",
		"source", cfg.Source,
		"interval", cfg.DoublePressInterval.String(),
		"app_path", cfg.AppLaunchPath,
		"app_name", cfg.AppMatchPattern,
		"key", cfg.DetectKey.String(),
		"hide_method", cfg.HideMethod.String(),
		"backend", string(cfg.Backend))

	return cfg, nil
}

func loadLayers(providedPath string, log core.Logger) (*Config, error) {
	if providedPath != "" {
		cfg, err := LoadFromFile(providedPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return cfg, nil
	}

	if envPath, ok := os.LookupEnv(EnvConfig); ok && envPath != "" {
		cfg, err := LoadFromFile(envPath, log)
		if err == nil {
			return cfg, nil
		}
		log.Warn("Ignoring config from environment", "path", envPath, "error", err.Error())
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		log.Warn("No user config directory, using defaults", "error", err.Error())
		return DefaultConfig(), nil
	}

	cfg, err := LoadFromFile(defaultPath, log)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		log.Debug("No config file, using defaults", "path", defaultPath)
	default:
		log.Warn("Ignoring unreadable config file", "path", defaultPath, "error", err.Error())
	}
	return DefaultConfig(), nil
}

// ApplyEnvOverrides sets fields from SUMMON_* variables. lookup is usually
// os.LookupEnv. Invalid values are logged and ignored.
func ApplyEnvOverrides(cfg *Config, lookup func(string) (string, bool), log core.Logger) {
	if v, ok := lookup("SUMMON_INTERVAL"); ok && v != "" {
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || ms <= 0 {
			log.Warn("Ignoring invalid SUMMON_INTERVAL", "value", v)
		} else {
			cfg.DoublePressInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v, ok := lookup("SUMMON_APP_PATH"); ok && strings.TrimSpace(v) != "" {
		cfg.AppLaunchPath = v
	}
	if v, ok := lookup("SUMMON_APP_NAME"); ok && strings.TrimSpace(v) != "" {
		cfg.AppMatchPattern = v
	}
	if v, ok := lookup("SUMMON_KEY"); ok && v != "" {
		if k, valid := input.ParseKey(v); valid {
			cfg.DetectKey = k
		} else {
			log.Warn("Ignoring invalid SUMMON_KEY", "value", v)
		}
	}
	if v, ok := lookup("SUMMON_HIDE_METHOD"); ok && v != "" {
		if h, valid := ParseHideMethod(v); valid {
			cfg.HideMethod = h
		} else {
			log.Warn("Ignoring invalid SUMMON_HIDE_METHOD", "value", v)
		}
	}
	if v, ok := lookup("SUMMON_BACKEND"); ok && v != "" {
		if b, valid := ParseBackend(v); valid {
			cfg.Backend = b
		} else {
			log.Warn("Ignoring invalid SUMMON_BACKEND", "value", v)
		}
	}
}
