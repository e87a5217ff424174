package wm

import (
	"summon/pkg/config"
	"summon/pkg/core"
)

var ewmhRequired = []string{"_NET_WM_DESKTOP", "_NET_ACTIVE_WINDOW"}

// X11 controls windows through EWMH and ICCCM. Each call opens its own
// display connection.
type X11 struct {
	log      core.Logger
	cfg      *config.Config
	launcher *Launcher
	dial     func() (xserver, error)
}

func NewX11(cfg *config.Config, log core.Logger, launcher *Launcher) *X11 {
	return &X11{
		log:      log,
		cfg:      cfg,
		launcher: launcher,
		dial:     dialX,
	}
}

func (x *X11) Name() string {
	return "x11"
}

// withServer runs fn on a fresh connection and returns fallback when the
// display cannot be opened.
func withServer[T any](x *X11, fallback T, fn func(xserver) T) T {
	s, err := x.dial()
	if err != nil {
		x.log.Error("X11 display unavailable", err)
		return fallback
	}
	defer s.Close()
	return fn(s)
}

func (x *X11) FindWindow(pattern string) (Handle, bool) {
	type result struct {
		h  Handle
		ok bool
	}
	r := withServer(x, result{}, func(s xserver) result {
		h, ok := x.find(s, pattern)
		return result{h, ok}
	})
	return r.h, r.ok
}

func (x *X11) find(s xserver, pattern string) (Handle, bool) {
	windows := clientWindows(s)

	var candidates []Candidate
	for _, w := range windows {
		var title, class *string
		if t, ok := s.Title(w); ok {
			title = &t
		}
		if c, ok := s.Class(w); ok {
			class = &c
		}
		if !MatchesApp(pattern, title, class) {
			continue
		}
		candidates = append(candidates, Candidate{
			Window:             Handle(w),
			OnCurrentWorkspace: onCurrentDesktop(s, w),
			Visible:            viewable(s, w),
		})
	}

	h, ok := SelectPreferred(candidates)
	x.log.Debug("Window lookup", "pattern", pattern, "windows", len(windows), "candidates", len(candidates), "found", ok, "handle", uint64(h))
	return h, ok
}

// clientWindows prefers the stacking order, then the managed client list,
// then the raw children of the root window.
func clientWindows(s xserver) []uint32 {
	if ws, err := s.ClientListStacking(); err == nil && len(ws) > 0 {
		return ws
	}
	if ws, err := s.ClientList(); err == nil && len(ws) > 0 {
		return ws
	}
	ws, _ := s.Children()
	return ws
}

// Missing desktop properties read as desktop 0.
func onCurrentDesktop(s xserver, w uint32) bool {
	current, err := s.CurrentDesktop()
	if err != nil {
		current = 0
	}
	desktop, err := s.WindowDesktop(w)
	if err != nil {
		desktop = 0
	}
	return desktop == desktopAll || desktop == current
}

func viewable(s xserver, w uint32) bool {
	if state, err := s.WMState(w); err == nil && state == wmStateIconic {
		return false
	}
	ok, err := s.Viewable(w)
	return err == nil && ok
}

func ewmhSupported(s xserver) bool {
	supported, err := s.Supported()
	if err != nil {
		return false
	}
	return haveAll(supported, ewmhRequired)
}

func (x *X11) IsOnCurrentWorkspace(h Handle) bool {
	return withServer(x, false, func(s xserver) bool {
		return onCurrentDesktop(s, uint32(h))
	})
}

func (x *X11) IsVisible(h Handle) bool {
	return withServer(x, false, func(s xserver) bool {
		return viewable(s, uint32(h))
	})
}

func (x *X11) MoveToCurrentWorkspace(h Handle) {
	withServer(x, struct{}{}, func(s xserver) struct{} {
		w := uint32(h)
		current, err := s.CurrentDesktop()
		if err != nil {
			current = 0
		}
		if ewmhSupported(s) {
			x.send(s, "_NET_WM_DESKTOP", func(atom uint32) ClientMessage {
				return DesktopMessage(w, current, atom)
			})
			return struct{}{}
		}
		if err := s.SetCardinal(w, "_NET_WM_DESKTOP", current); err != nil {
			x.log.Error("Failed to set window desktop", err, "window", w)
		}
		return struct{}{}
	})
}

func (x *X11) Show(h Handle) {
	withServer(x, struct{}{}, func(s xserver) struct{} {
		w := uint32(h)
		if ewmhSupported(s) {
			x.send(s, "_NET_ACTIVE_WINDOW", func(atom uint32) ClientMessage {
				return ActivateMessage(w, atom)
			})
			return struct{}{}
		}
		if err := s.Map(w); err != nil {
			x.log.Error("Failed to map window", err, "window", w)
		}
		return struct{}{}
	})
}

func (x *X11) Hide(h Handle) {
	if x.cfg.HideMethod == config.HideNone {
		x.log.Debug("Hiding disabled", "handle", uint64(h))
		return
	}
	withServer(x, struct{}{}, func(s xserver) struct{} {
		w := uint32(h)
		if ewmhSupported(s) {
			x.send(s, "WM_CHANGE_STATE", func(atom uint32) ClientMessage {
				return IconifyMessage(w, atom)
			})
			return struct{}{}
		}
		if err := s.Unmap(w); err != nil {
			x.log.Error("Failed to unmap window", err, "window", w)
		}
		return struct{}{}
	})
}

func (x *X11) send(s xserver, atomName string, build func(atom uint32) ClientMessage) {
	atom, err := s.Atom(atomName)
	if err != nil {
		x.log.Error("Failed to intern atom", err, "atom", atomName)
		return
	}
	msg := build(atom)
	if err := s.SendToRoot(msg); err != nil {
		x.log.Error("Failed to send client message", err, "atom", atomName, "window", msg.Window)
		return
	}
	x.log.Debug("Client message sent", "atom", atomName, "window", msg.Window, "data", msg.Data)
}

func (x *X11) LaunchApp(path string) {
	x.launcher.Launch(path)
}
