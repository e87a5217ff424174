package wm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type hyprWorkspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (w hyprWorkspace) special() bool {
	return w.ID < 0 || strings.HasPrefix(w.Name, "special")
}

type hyprClient struct {
	Address   string        `json:"address"`
	Mapped    bool          `json:"mapped"`
	Hidden    bool          `json:"hidden"`
	Workspace hyprWorkspace `json:"workspace"`
	Class     string        `json:"class"`
	Title     string        `json:"title"`
}

// hyprland talks to Hyprland through hyprctl. Handles are client addresses.
type hyprland struct {
	run     Runner
	special string
}

func parseHyprAddress(addr string) (Handle, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hyprland address %q: %w", addr, err)
	}
	return Handle(v), nil
}

func hyprAddress(h Handle) string {
	return fmt.Sprintf("address:0x%x", uint64(h))
}

func (hy *hyprland) activeWorkspace() (hyprWorkspace, error) {
	out, err := hy.run.Run("hyprctl", "-j", "activeworkspace")
	if err != nil {
		return hyprWorkspace{}, err
	}
	var ws hyprWorkspace
	if err := json.Unmarshal(out, &ws); err != nil {
		return hyprWorkspace{}, fmt.Errorf("parse active workspace: %w", err)
	}
	return ws, nil
}

func (hy *hyprland) list() ([]windowInfo, error) {
	out, err := hy.run.Run("hyprctl", "-j", "clients")
	if err != nil {
		return nil, err
	}
	var clients []hyprClient
	if err := json.Unmarshal(out, &clients); err != nil {
		return nil, fmt.Errorf("parse hyprctl clients: %w", err)
	}

	active, err := hy.activeWorkspace()
	activeKnown := err == nil

	windows := make([]windowInfo, 0, len(clients))
	for _, c := range clients {
		h, err := parseHyprAddress(c.Address)
		if err != nil {
			continue
		}
		current := activeKnown && !c.Workspace.special() && c.Workspace.ID == active.ID
		windows = append(windows, windowInfo{
			handle:    h,
			title:     optional(c.Title),
			class:     optional(c.Class),
			onCurrent: current,
			visible:   current && c.Mapped && !c.Hidden,
		})
	}
	return windows, nil
}

func (hy *hyprland) move(h Handle) error {
	active, err := hy.activeWorkspace()
	if err != nil {
		return err
	}
	return hy.dispatch("movetoworkspacesilent", fmt.Sprintf("%d,%s", active.ID, hyprAddress(h)))
}

func (hy *hyprland) show(h Handle) error {
	return hy.dispatch("focuswindow", hyprAddress(h))
}

func (hy *hyprland) hide(h Handle) error {
	return hy.dispatch("movetoworkspacesilent", fmt.Sprintf("special:%s,%s", hy.special, hyprAddress(h)))
}

// dispatch runs a hyprctl dispatcher. hyprctl exits zero on most failures
// and prints the reason instead of "ok".
func (hy *hyprland) dispatch(args ...string) error {
	out, err := hy.run.Run("hyprctl", append([]string{"dispatch"}, args...)...)
	if err != nil {
		return err
	}
	if reply := strings.TrimSpace(string(out)); reply != "" && reply != "ok" {
		return fmt.Errorf("hyprctl dispatch %s: %s", strings.Join(args, " "), reply)
	}
	return nil
}
