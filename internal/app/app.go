package app

import (
	"context"
	"fmt"

	"summon/internal/gesture"
	"summon/internal/input"
	"summon/internal/ipc"
	"summon/internal/wm"
	"summon/pkg/config"
	"summon/pkg/core"
)

// KeySource delivers key transitions until ctx is done.
type KeySource interface {
	Start(ctx context.Context) (<-chan input.Event, error)
}

type job struct {
	req   ipc.Request
	reply chan ipc.Response
}

// App is the daemon. Key events and control requests are handled on one
// goroutine so backend calls never overlap.
type App struct {
	cfg      *config.Config
	log      core.Logger
	backend  wm.WindowManager
	detector *gesture.Detector
	jobs     chan job

	triggers   int
	lastAction string
}

func New(cfg *config.Config, log core.Logger, backend wm.WindowManager) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		detector: gesture.NewDetector(cfg.DoublePressInterval, cfg.DetectKey),
		jobs:     make(chan job),
	}
}

// Serve starts the key source and the control socket, then runs the event
// loop until ctx is cancelled. A control socket that cannot be opened is
// logged and the daemon keeps running without it.
func (a *App) Serve(ctx context.Context, keys KeySource, socketPath string) error {
	events, err := keys.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start key listener: %w", err)
	}

	if socketPath != "" {
		server := ipc.NewServer(socketPath, a, a.log)
		go func() {
			if err := server.Serve(ctx); err != nil {
				a.log.Error("Control socket unavailable", err, "path", socketPath)
			}
		}()
	}

	a.log.Info("Listening for double press",
		"key", a.cfg.DetectKey.String(),
		"interval", a.cfg.DoublePressInterval.String(),
		"backend", a.backend.Name())

	return a.Run(ctx, events)
}

// Run is the event loop.
func (a *App) Run(ctx context.Context, events <-chan input.Event) error {
	for {
		select {
		case <-ctx.Done():
			a.log.Info("Shutting down")
			return nil
		case ev, ok := <-events:
			if !ok {
				a.log.Warn("Key event stream closed")
				events = nil
				continue
			}
			a.handleKey(ev)
		case j := <-a.jobs:
			j.reply <- a.handleRequest(j.req)
		}
	}
}

func (a *App) handleKey(ev input.Event) {
	if !ev.Pressed {
		a.detector.OnRelease(ev.Key, ev.Time)
		return
	}
	if a.detector.OnPress(ev.Key, ev.Time) {
		a.log.Debug("Double press detected", "key", ev.Key.String(), "device", ev.Device)
		a.toggle()
	}
}

func (a *App) toggle() Action {
	action := Toggle(a.backend, a.cfg, a.log)
	a.triggers++
	a.lastAction = action.String()
	return action
}

// Handle implements ipc.Handler by passing the request to the event loop.
func (a *App) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	j := job{req: req, reply: make(chan ipc.Response, 1)}
	select {
	case a.jobs <- j:
	case <-ctx.Done():
		return ipc.Response{Status: ipc.StatusError, Message: "daemon shutting down"}
	}
	select {
	case resp := <-j.reply:
		return resp
	case <-ctx.Done():
		return ipc.Response{Status: ipc.StatusError, Message: "daemon shutting down"}
	}
}

func (a *App) handleRequest(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandPing:
		return ipc.Response{Status: ipc.StatusSuccess, Message: "pong"}
	case ipc.CommandToggle:
		action := a.toggle()
		return ipc.Response{
			Status:  ipc.StatusSuccess,
			Message: "Window " + action.String(),
			Data:    map[string]interface{}{"action": action.String()},
		}
	case ipc.CommandStatus:
		return ipc.Response{Status: ipc.StatusSuccess, Message: "running", Data: a.status()}
	default:
		return ipc.Response{Status: ipc.StatusError, Message: "Unknown command"}
	}
}

func (a *App) status() map[string]interface{} {
	data := map[string]interface{}{
		"backend":     a.backend.Name(),
		"key":         a.cfg.DetectKey.String(),
		"interval_ms": a.cfg.DoublePressInterval.Milliseconds(),
		"app_name":    a.cfg.AppMatchPattern,
		"app_path":    a.cfg.AppLaunchPath,
		"hide_method": a.cfg.HideMethod.String(),
		"gesture":     a.detector.State().String(),
		"triggers":    a.triggers,
	}
	if f, ok := a.backend.(interface{ Flavor() wm.Flavor }); ok {
		data["flavor"] = f.Flavor().String()
	}
	if a.lastAction != "" {
		data["last_action"] = a.lastAction
	}
	if a.cfg.Source != "" {
		data["config"] = a.cfg.Source
	}
	return data
}
