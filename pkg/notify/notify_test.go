package notify

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summon/pkg/logger"
)

type harness struct {
	svc    *NotifyService
	ran    [][]string
	stderr bytes.Buffer
}

func newHarness(notifyCommand string, tools map[string]bool, runErr error, tty bool) *harness {
	h := &harness{}
	h.svc = NewNotifyService(notifyCommand, logger.Nop())
	h.svc.lookPath = func(name string) (string, error) {
		if tools[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	h.svc.run = func(cmd *exec.Cmd) error {
		h.ran = append(h.ran, cmd.Args)
		return runErr
	}
	h.svc.stderr = &h.stderr
	h.svc.terminal = func() bool { return tty }
	return h
}

func TestNotifyUsesCustomCommand(t *testing.T) {
	h := newHarness("my-notify", nil, nil, false)

	require.NoError(t, h.svc.Notify("it's broken"))
	require.Len(t, h.ran, 1)
	assert.Equal(t, []string{"sh", "-c", `my-notify "$1" "$2"`, "summon", "ERROR", "it's broken"}, h.ran[0])
}

func TestNotifyFallsBackToNotifySend(t *testing.T) {
	h := newHarness("", map[string]bool{"notify-send": true}, nil, false)

	require.NoError(t, h.svc.Notify("launch failed"))
	require.Len(t, h.ran, 1)
	assert.Equal(t, []string{"/usr/bin/notify-send", "-a", "summon", "-u", "critical", "summon", "launch failed"}, h.ran[0])
}

func TestNotifyPrefersDunstify(t *testing.T) {
	h := newHarness("", map[string]bool{"notify-send": true, "dunstify": true}, nil, false)

	require.NoError(t, h.svc.Notify("boom"))
	require.Len(t, h.ran, 1)
	assert.Equal(t, "/usr/bin/dunstify", h.ran[0][0])
	assert.Contains(t, h.ran[0], "critical")
}

func TestNotifyPrintsToTerminal(t *testing.T) {
	h := newHarness("failing", map[string]bool{"notify-send": true}, errors.New("exit 1"), true)

	require.NoError(t, h.svc.Notify("no backend"))
	assert.Len(t, h.ran, 2)
	assert.Contains(t, h.stderr.String(), "summon - ERROR: no backend")
}

func TestNotifyWithNothingAvailable(t *testing.T) {
	h := newHarness("", nil, nil, false)
	assert.Error(t, h.svc.Notify("lost"))
	assert.Empty(t, h.ran)
}
