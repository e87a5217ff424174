package app

import (
	"summon/internal/wm"
	"summon/pkg/config"
	"summon/pkg/core"
)

// Action is what a toggle did.
type Action int

const (
	Launched Action = iota
	MovedAndShown
	Shown
	Hidden
)

func (a Action) String() string {
	switch a {
	case Launched:
		return "launched"
	case MovedAndShown:
		return "moved"
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Toggle launches the configured application, pulls its window to the
// current workspace, or flips its visibility.
func Toggle(w wm.WindowManager, cfg *config.Config, log core.Logger) Action {
	h, ok := w.FindWindow(cfg.AppMatchPattern)
	if !ok {
		log.Info("No matching window, launching", "pattern", cfg.AppMatchPattern, "path", cfg.AppLaunchPath)
		w.LaunchApp(cfg.AppLaunchPath)
		return Launched
	}

	if !w.IsOnCurrentWorkspace(h) {
		log.Info("Bringing window to current workspace", "handle", uint64(h))
		w.MoveToCurrentWorkspace(h)
		w.Show(h)
		return MovedAndShown
	}

	if w.IsVisible(h) {
		log.Info("Hiding window", "handle", uint64(h))
		w.Hide(h)
		return Hidden
	}

	log.Info("Showing window", "handle", uint64(h))
	w.Show(h)
	return Shown
}
