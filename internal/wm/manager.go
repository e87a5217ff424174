package wm

import (
	"os"

	"summon/pkg/config"
	"summon/pkg/core"
)

// Manager is the window backend chosen for this session.
type Manager struct {
	WindowManager
}

type managerDeps struct {
	getenv     func(string) string
	compositor func() *Compositor
	x11        func() *X11
}

// NewManager selects a backend from the configured preference and the
// session environment. It never fails: without a usable backend the
// returned manager can only launch the application.
func NewManager(cfg *config.Config, log core.Logger, notifier core.Notifier) *Manager {
	launcher := NewLauncher(log, notifier)
	deps := managerDeps{
		getenv: os.Getenv,
		compositor: func() *Compositor {
			return NewCompositor(cfg, log, NewRunner(cfg.CommandTimeout), NewShellEvaluator(cfg.CommandTimeout), launcher)
		},
		x11: func() *X11 { return NewX11(cfg, log, launcher) },
	}
	m := newManager(cfg, log, deps)

	if c, ok := m.WindowManager.(*Compositor); ok && c.Flavor() == FlavorNone && notifier != nil {
		if err := notifier.Notify("No supported window backend found; summon can only launch the application"); err != nil {
			log.Debug("Notification failed", "error", err.Error())
		}
	}
	return m
}

func newManager(cfg *config.Config, log core.Logger, deps managerDeps) *Manager {
	sessionType := deps.getenv("XDG_SESSION_TYPE")
	wayland := deps.getenv("WAYLAND_DISPLAY") != "" || sessionType == "wayland"
	x11 := deps.getenv("DISPLAY") != ""
	log.Info("Session type detected", "session", sessionType, "wayland", wayland, "x11", x11, "backend", string(cfg.Backend))

	var backend WindowManager
	switch cfg.Backend {
	case config.BackendX11:
		if !x11 {
			log.Warn("X11 backend forced but DISPLAY is not set")
		}
		backend = deps.x11()
	case config.BackendWayland:
		backend = deps.compositor()
	default:
		switch {
		case wayland:
			c := deps.compositor()
			if c.Flavor() == FlavorNone && x11 {
				log.Info("No compositor IPC available, falling back to X11")
				_ = c.Close()
				backend = deps.x11()
			} else {
				backend = c
			}
		case x11:
			backend = deps.x11()
		default:
			log.Warn("Neither Wayland nor X11 session detected")
			backend = deps.compositor()
		}
	}

	log.Info("Window manager initialized", "name", backend.Name())
	return &Manager{WindowManager: backend}
}

// Flavor reports the detected compositor, FlavorNone on X11.
func (m *Manager) Flavor() Flavor {
	if c, ok := m.WindowManager.(*Compositor); ok {
		return c.Flavor()
	}
	return FlavorNone
}

func (m *Manager) Close() error {
	if c, ok := m.WindowManager.(*Compositor); ok {
		return c.Close()
	}
	return nil
}
