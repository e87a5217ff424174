package notify

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"summon/pkg/core"
)

const (
	title = "summon"

	// severity is passed to notify_command as its first argument.
	severity = "ERROR"
)

// NotifyService shows desktop notifications through the configured command,
// a known notification tool, or stderr when attached to a terminal.
type NotifyService struct {
	log           core.Logger
	notifyCommand string

	lookPath func(string) (string, error)
	run      func(*exec.Cmd) error
	stderr   io.Writer
	terminal func() bool
}

// NewNotifyService creates a new notification service
func NewNotifyService(notifyCommand string, log core.Logger) *NotifyService {
	return &NotifyService{
		log:           log,
		notifyCommand: notifyCommand,
		lookPath:      exec.LookPath,
		run:           (*exec.Cmd).Run,
		stderr:        os.Stderr,
		terminal:      isRunningInTerminal,
	}
}

// Notify shows an error notification.
func (n *NotifyService) Notify(message string) error {
	if n.notifyCommand != "" {
		err := n.executeNotifyCommand(message)
		if err == nil {
			return nil
		}
		n.log.Warn("Custom notification command failed", "command", n.notifyCommand, "error", err.Error())
	}

	if err := n.trySystemNotification(message); err == nil {
		return nil
	}

	if n.terminal() {
		return n.printToTerminal(message)
	}

	n.log.Warn("No way to show notification", "message", message)
	return fmt.Errorf("no notification method available")
}

// executeNotifyCommand passes severity and message as positional parameters
// so the message is never parsed by the shell.
func (n *NotifyService) executeNotifyCommand(message string) error {
	n.log.Debug("Executing notify command", "command", n.notifyCommand)
	cmd := exec.Command("sh", "-c", n.notifyCommand+` "$1" "$2"`, title, severity, message)
	return n.run(cmd)
}
