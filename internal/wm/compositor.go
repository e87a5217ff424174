package wm

import (
	"encoding/json"
	"sync"

	"summon/pkg/config"
	"summon/pkg/core"
)

// Flavor is the Wayland compositor family the adapter talks to.
type Flavor int

const (
	FlavorNone Flavor = iota
	FlavorSway
	FlavorHyprland
	FlavorGnomeShell
)

func (f Flavor) String() string {
	switch f {
	case FlavorSway:
		return "sway"
	case FlavorHyprland:
		return "hyprland"
	case FlavorGnomeShell:
		return "gnome-shell"
	default:
		return "none"
	}
}

// windowInfo is one toplevel as reported by a compositor.
type windowInfo struct {
	handle    Handle
	title     *string
	class     *string
	onCurrent bool
	visible   bool
}

// flavorOps is implemented once per compositor family.
type flavorOps interface {
	list() ([]windowInfo, error)
	move(h Handle) error
	show(h Handle) error
	hide(h Handle) error
}

type probe struct {
	flavor Flavor
	detect func(c *Compositor) bool
	ops    func(c *Compositor) flavorOps
}

// probes run in order; the first that answers wins.
var probes = []probe{
	{FlavorSway, probeSway, func(c *Compositor) flavorOps { return &sway{run: c.runner} }},
	{FlavorHyprland, probeHyprland, func(c *Compositor) flavorOps {
		return &hyprland{run: c.runner, special: c.cfg.SpecialWorkspace}
	}},
	{FlavorGnomeShell, probeGnome, func(c *Compositor) flavorOps { return &gnome{shell: c.shell} }},
}

// Compositor drives Wayland compositors through their IPC. Without a
// recognised compositor it can still launch the application.
type Compositor struct {
	log      core.Logger
	cfg      *config.Config
	runner   Runner
	shell    ShellEvaluator
	launcher *Launcher

	once   sync.Once
	flavor Flavor
	ops    flavorOps
}

func NewCompositor(cfg *config.Config, log core.Logger, runner Runner, shell ShellEvaluator, launcher *Launcher) *Compositor {
	return &Compositor{
		log:      log,
		cfg:      cfg,
		runner:   runner,
		shell:    shell,
		launcher: launcher,
	}
}

func (c *Compositor) Name() string {
	return "wayland/" + c.Flavor().String()
}

// Flavor detects the compositor on first use and caches the result,
// including a negative one.
func (c *Compositor) Flavor() Flavor {
	c.once.Do(func() {
		for _, p := range probes {
			if p.detect(c) {
				c.flavor = p.flavor
				c.ops = p.ops(c)
				c.log.Info("Compositor detected", "flavor", p.flavor.String())
				return
			}
			c.log.Debug("Compositor probe failed", "flavor", p.flavor.String())
		}
		c.log.Warn("No supported compositor found, only launching is available")
	})
	return c.flavor
}

func (c *Compositor) windows() []windowInfo {
	if c.Flavor() == FlavorNone {
		return nil
	}
	list, err := c.ops.list()
	if err != nil {
		c.log.Error("Failed to list windows", err, "flavor", c.flavor.String())
		return nil
	}
	return list
}

func (c *Compositor) lookup(h Handle) (windowInfo, bool) {
	for _, w := range c.windows() {
		if w.handle == h {
			return w, true
		}
	}
	return windowInfo{}, false
}

func (c *Compositor) FindWindow(pattern string) (Handle, bool) {
	var candidates []Candidate
	for _, w := range c.windows() {
		if !MatchesApp(pattern, w.title, w.class) {
			continue
		}
		candidates = append(candidates, Candidate{
			Window:             w.handle,
			OnCurrentWorkspace: w.onCurrent,
			Visible:            w.visible,
		})
	}
	h, ok := SelectPreferred(candidates)
	c.log.Debug("Window lookup", "pattern", pattern, "candidates", len(candidates), "found", ok, "handle", uint64(h))
	return h, ok
}

func (c *Compositor) IsOnCurrentWorkspace(h Handle) bool {
	w, ok := c.lookup(h)
	return ok && w.onCurrent
}

func (c *Compositor) IsVisible(h Handle) bool {
	w, ok := c.lookup(h)
	return ok && w.visible
}

func (c *Compositor) MoveToCurrentWorkspace(h Handle) {
	c.act("move", h, func(ops flavorOps) error { return ops.move(h) })
}

func (c *Compositor) Show(h Handle) {
	c.act("show", h, func(ops flavorOps) error { return ops.show(h) })
}

func (c *Compositor) Hide(h Handle) {
	if c.cfg.HideMethod == config.HideNone {
		c.log.Debug("Hiding disabled", "handle", uint64(h))
		return
	}
	if c.cfg.HideMethod == config.HideScratchpadOrSpecial && c.Flavor() == FlavorGnomeShell {
		c.log.Debug("GNOME Shell has no scratchpad, minimizing instead")
	}
	c.act("hide", h, func(ops flavorOps) error { return ops.hide(h) })
}

func (c *Compositor) LaunchApp(path string) {
	c.launcher.Launch(path)
}

func (c *Compositor) act(action string, h Handle, fn func(flavorOps) error) {
	if c.Flavor() == FlavorNone {
		return
	}
	if err := fn(c.ops); err != nil {
		c.log.Error("Compositor action failed", err, "action", action, "flavor", c.flavor.String(), "handle", uint64(h))
		return
	}
	c.log.Debug("Compositor action done", "action", action, "handle", uint64(h))
}

// Close releases the D-Bus connection if one was opened.
func (c *Compositor) Close() error {
	if closer, ok := c.shell.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func probeSway(c *Compositor) bool {
	out, err := c.runner.Run("swaymsg", "-t", "get_tree", "-r")
	if err != nil {
		return false
	}
	var tree map[string]json.RawMessage
	if err := json.Unmarshal(out, &tree); err != nil {
		return false
	}
	var nodes []json.RawMessage
	return json.Unmarshal(tree["nodes"], &nodes) == nil && nodes != nil
}

func probeHyprland(c *Compositor) bool {
	out, err := c.runner.Run("hyprctl", "-j", "monitors")
	if err != nil {
		return false
	}
	var monitors []json.RawMessage
	return json.Unmarshal(out, &monitors) == nil && monitors != nil
}

const gnomeProbeMarker = "summon-probe"

func probeGnome(c *Compositor) bool {
	if c.shell == nil {
		return false
	}
	res, err := c.shell.Eval(`"` + gnomeProbeMarker + `"`)
	return err == nil && res == gnomeProbeMarker
}
