package wm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const swayScratchpad = "__i3_scratch"

type swayNode struct {
	ID               int64           `json:"id"`
	Type             string          `json:"type"`
	Name             *string         `json:"name"`
	AppID            *string         `json:"app_id"`
	PID              int             `json:"pid"`
	Visible          *bool           `json:"visible"`
	WindowProperties *swayProperties `json:"window_properties"`
	Nodes            []swayNode      `json:"nodes"`
	FloatingNodes    []swayNode      `json:"floating_nodes"`
}

type swayProperties struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

type swayWorkspace struct {
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
}

type swayWindow struct {
	windowInfo
	workspace string
}

// sway talks to Sway through swaymsg. Handles are container ids.
type sway struct {
	run Runner
}

func (s *sway) tree() (*swayNode, error) {
	out, err := s.run.Run("swaymsg", "-t", "get_tree", "-r")
	if err != nil {
		return nil, err
	}
	var root swayNode
	if err := json.Unmarshal(out, &root); err != nil {
		return nil, fmt.Errorf("parse sway tree: %w", err)
	}
	return &root, nil
}

func (s *sway) focusedWorkspace() (string, error) {
	out, err := s.run.Run("swaymsg", "-t", "get_workspaces", "-r")
	if err != nil {
		return "", err
	}
	var workspaces []swayWorkspace
	if err := json.Unmarshal(out, &workspaces); err != nil {
		return "", fmt.Errorf("parse sway workspaces: %w", err)
	}
	for _, ws := range workspaces {
		if ws.Focused {
			return ws.Name, nil
		}
	}
	return "", fmt.Errorf("no focused sway workspace")
}

func (s *sway) windows() ([]swayWindow, error) {
	root, err := s.tree()
	if err != nil {
		return nil, err
	}
	// An unknown focused workspace only means nothing is current.
	focused, _ := s.focusedWorkspace()

	var out []swayWindow
	var walk func(n *swayNode, workspace string)
	walk = func(n *swayNode, workspace string) {
		if n.Type == "workspace" && n.Name != nil {
			workspace = *n.Name
		}
		if isSwayWindow(n) {
			out = append(out, swayWindow{
				windowInfo: describeSwayWindow(n, workspace, focused),
				workspace:  workspace,
			})
		}
		for i := range n.Nodes {
			walk(&n.Nodes[i], workspace)
		}
		for i := range n.FloatingNodes {
			walk(&n.FloatingNodes[i], workspace)
		}
	}
	walk(root, "")
	return out, nil
}

func isSwayWindow(n *swayNode) bool {
	if n.Type != "con" && n.Type != "floating_con" {
		return false
	}
	if len(n.Nodes) > 0 || len(n.FloatingNodes) > 0 {
		return false
	}
	return n.PID > 0 || n.AppID != nil || n.WindowProperties != nil
}

func describeSwayWindow(n *swayNode, workspace, focused string) windowInfo {
	var class *string
	if n.AppID != nil && *n.AppID != "" {
		class = n.AppID
	} else if n.WindowProperties != nil {
		class = optional(n.WindowProperties.Class)
	}

	var title *string
	if n.Name != nil {
		title = n.Name
	} else if n.WindowProperties != nil {
		title = optional(n.WindowProperties.Title)
	}

	inScratch := workspace == swayScratchpad
	return windowInfo{
		handle:    Handle(n.ID),
		title:     title,
		class:     class,
		onCurrent: !inScratch && workspace != "" && workspace == focused,
		visible:   !inScratch && n.Visible != nil && *n.Visible,
	}
}

func (s *sway) list() ([]windowInfo, error) {
	windows, err := s.windows()
	if err != nil {
		return nil, err
	}
	out := make([]windowInfo, len(windows))
	for i, w := range windows {
		out[i] = w.windowInfo
	}
	return out, nil
}

func (s *sway) move(h Handle) error {
	windows, err := s.windows()
	if err != nil {
		return err
	}
	for _, w := range windows {
		if w.handle != h {
			continue
		}
		if w.workspace == swayScratchpad {
			return s.command(h, "scratchpad show")
		}
		focused, err := s.focusedWorkspace()
		if err != nil {
			return err
		}
		return s.command(h, "move container to workspace "+swayQuote(focused))
	}
	return fmt.Errorf("sway container %d not found", uint64(h))
}

func (s *sway) show(h Handle) error {
	return s.command(h, "focus")
}

func (s *sway) hide(h Handle) error {
	return s.command(h, "move scratchpad")
}

// command runs a criteria-scoped sway command and checks the per-command
// success flags swaymsg reports.
func (s *sway) command(h Handle, cmd string) error {
	out, err := s.run.Run("swaymsg", "-r", fmt.Sprintf("[con_id=%d] %s", uint64(h), cmd))
	if err != nil {
		return err
	}
	var results []struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(out, &results); err != nil {
		return fmt.Errorf("parse swaymsg reply: %w", err)
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("swaymsg %q: %s", cmd, r.Error)
		}
	}
	return nil
}

func swayQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
