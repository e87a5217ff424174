package notify

import (
	"fmt"
	"os"
)

func (n *NotifyService) printToTerminal(message string) error {
	_, err := fmt.Fprintf(n.stderr, "\x1b[31m%s - %s: %s\x1b[0m\n", title, severity, message)
	return err
}

func isRunningInTerminal() bool {
	fileInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
