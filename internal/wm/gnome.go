package wm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	gnomeShellDest   = "org.gnome.Shell"
	gnomeShellPath   = "/org/gnome/Shell"
	gnomeShellMethod = "org.gnome.Shell.Eval"
)

// ShellEvaluator runs JavaScript inside GNOME Shell and returns the result.
type ShellEvaluator interface {
	Eval(script string) (string, error)
}

type dbusShell struct {
	timeout time.Duration

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewShellEvaluator returns an evaluator over the session bus. The bus is
// connected on first use.
func NewShellEvaluator(timeout time.Duration) ShellEvaluator {
	return &dbusShell{timeout: timeout}
}

func (d *dbusShell) bus() (*dbus.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil && d.conn.Connected() {
		return d.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	d.conn = conn
	return conn, nil
}

func (d *dbusShell) Eval(script string) (string, error) {
	conn, err := d.bus()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var ok bool
	var result string
	obj := conn.Object(gnomeShellDest, gnomeShellPath)
	if err := obj.CallWithContext(ctx, gnomeShellMethod, 0, script).Store(&ok, &result); err != nil {
		return "", fmt.Errorf("shell eval: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("shell eval rejected: %s", result)
	}
	return unquoteEval(result), nil
}

func (d *dbusShell) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// unquoteEval strips the JSON string encoding Eval applies to string results.
func unquoteEval(result string) string {
	if !strings.HasPrefix(result, `"`) {
		return result
	}
	var s string
	if err := json.Unmarshal([]byte(result), &s); err != nil {
		return result
	}
	return s
}

const gnomeListScript = `(() => {
  const active = global.workspace_manager.get_active_workspace_index();
  const windows = global.get_window_actors()
    .map(a => a.meta_window)
    .filter(w => w.get_window_type() === imports.gi.Meta.WindowType.NORMAL)
    .map(w => ({
      id: w.get_id(),
      wm_class: w.get_wm_class(),
      title: w.get_title(),
      workspace: w.get_workspace() ? w.get_workspace().index() : -1,
      minimized: w.minimized,
      on_all: w.is_on_all_workspaces(),
    }));
  return JSON.stringify({ active, windows });
})()`

const gnomeActionScript = `(() => {
  const w = global.get_window_actors()
    .map(a => a.meta_window)
    .find(w => w.get_id() === %d);
  if (!w) return false;
  %s
  return true;
})()`

const (
	gnomeMoveBody = `w.change_workspace_by_index(global.workspace_manager.get_active_workspace_index(), false);`
	gnomeShowBody = `if (w.minimized) w.unminimize(); w.activate(global.get_current_time());`
	gnomeHideBody = `w.minimize();`
)

type gnomeWindow struct {
	ID        uint64  `json:"id"`
	WMClass   *string `json:"wm_class"`
	Title     *string `json:"title"`
	Workspace int     `json:"workspace"`
	Minimized bool    `json:"minimized"`
	OnAll     bool    `json:"on_all"`
}

type gnomeListing struct {
	Active  int           `json:"active"`
	Windows []gnomeWindow `json:"windows"`
}

// gnome drives GNOME Shell through its Eval method. Handles are meta window
// ids.
type gnome struct {
	shell ShellEvaluator
}

func (g *gnome) list() ([]windowInfo, error) {
	res, err := g.shell.Eval(gnomeListScript)
	if err != nil {
		return nil, err
	}
	var listing gnomeListing
	if err := json.Unmarshal([]byte(res), &listing); err != nil {
		return nil, fmt.Errorf("parse gnome window list: %w", err)
	}

	windows := make([]windowInfo, 0, len(listing.Windows))
	for _, w := range listing.Windows {
		current := w.OnAll || w.Workspace == listing.Active
		windows = append(windows, windowInfo{
			handle:    Handle(w.ID),
			title:     w.Title,
			class:     w.WMClass,
			onCurrent: current,
			visible:   current && !w.Minimized,
		})
	}
	return windows, nil
}

func (g *gnome) act(h Handle, body string) error {
	res, err := g.shell.Eval(fmt.Sprintf(gnomeActionScript, uint64(h), body))
	if err != nil {
		return err
	}
	if res != "true" {
		return fmt.Errorf("gnome window %d not found", uint64(h))
	}
	return nil
}

func (g *gnome) move(h Handle) error { return g.act(h, gnomeMoveBody) }
func (g *gnome) show(h Handle) error { return g.act(h, gnomeShowBody) }
func (g *gnome) hide(h Handle) error { return g.act(h, gnomeHideBody) }
