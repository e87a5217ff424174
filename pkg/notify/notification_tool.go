package notify

import (
	"fmt"
	"os/exec"
)

type notificationTool struct {
	name         string
	buildCommand func(tool string, message string) *exec.Cmd
}

var notificationTools = []notificationTool{
	{
		name: "dunstify",
		buildCommand: func(tool string, message string) *exec.Cmd {
			return exec.Command(tool, "-a", title, "-u", "critical", "-t", "5000", title, message)
		},
	},
	{
		name: "notify-send",
		buildCommand: func(tool string, message string) *exec.Cmd {
			return exec.Command(tool, "-a", title, "-u", "critical", title, message)
		},
	},
}

func (n *NotifyService) trySystemNotification(message string) error {
	for _, tool := range notificationTools {
		path, err := n.lookPath(tool.name)
		if err != nil {
			continue
		}
		if err := n.run(tool.buildCommand(path, message)); err == nil {
			n.log.Debug("Notification sent successfully", "tool", tool.name)
			return nil
		}
	}
	return fmt.Errorf("no notification tools available")
}
