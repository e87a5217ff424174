package wm

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"summon/pkg/core"
)

// Launcher starts applications in their own session so they outlive the
// daemon.
type Launcher struct {
	log      core.Logger
	notifier core.Notifier
	start    func(*exec.Cmd) error
}

func NewLauncher(log core.Logger, notifier core.Notifier) *Launcher {
	return &Launcher{
		log:      log,
		notifier: notifier,
		start:    startDetached,
	}
}

// Launch runs path. A path that is not an existing file is split on
// whitespace into a program and its arguments.
func (l *Launcher) Launch(path string) {
	name, args, err := splitCommand(path)
	if err != nil {
		l.fail(path, err)
		return
	}

	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	l.log.Info("Launching application", "command", path)
	if err := l.start(cmd); err != nil {
		l.fail(path, err)
	}
}

func (l *Launcher) fail(path string, err error) {
	l.log.Error("Failed to launch application", err, "command", path)
	if l.notifier == nil {
		return
	}
	if nerr := l.notifier.Notify(fmt.Sprintf("Could not launch %s: %v", path, err)); nerr != nil {
		l.log.Debug("Notification failed", "error", nerr.Error())
	}
}

func splitCommand(path string) (string, []string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil, nil
	}
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty application path")
	}
	return fields[0], fields[1:], nil
}

// startDetached starts cmd and reaps it in the background.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
