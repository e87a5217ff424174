package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summon/pkg/logger"
)

type recordingHandler struct {
	mu       sync.Mutex
	commands []string
}

func (h *recordingHandler) Handle(_ context.Context, req Request) Response {
	h.mu.Lock()
	h.commands = append(h.commands, req.Command)
	h.mu.Unlock()
	return Response{Status: StatusSuccess, Message: req.Command + " done", Data: map[string]interface{}{"n": 1}}
}

// socketDir keeps paths short enough for sun_path.
func socketDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "summon")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func startServer(t *testing.T, path string, h Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(path, h, logger.Nop()).Serve(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("unix", path)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return cancel, done
}

func TestServerRoundTrip(t *testing.T) {
	path := filepath.Join(socketDir(t), "s.sock")
	h := &recordingHandler{}
	cancel, done := startServer(t, path, h)

	resp, err := SendCommand(path, CommandToggle, time.Second, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "toggle done", resp.Message)
	assert.Equal(t, float64(1), resp.Data["n"])

	resp, err = SendCommand(path, "dance", time.Second, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, StatusError, resp.Status)

	h.mu.Lock()
	assert.Equal(t, []string{CommandToggle}, h.commands)
	h.mu.Unlock()

	cancel()
	require.NoError(t, <-done)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestServerReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(socketDir(t), "s.sock")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cancel, done := startServer(t, path, &recordingHandler{})
	resp, err := SendCommand(path, CommandPing, time.Second, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)

	cancel()
	require.NoError(t, <-done)
}

func TestServerRefusesSecondInstance(t *testing.T) {
	path := filepath.Join(socketDir(t), "s.sock")
	cancel, done := startServer(t, path, &recordingHandler{})
	defer func() {
		cancel()
		<-done
	}()

	err := NewServer(path, &recordingHandler{}, logger.Nop()).Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already listening")
}

func TestSendCommandWithoutDaemon(t *testing.T) {
	_, err := SendCommand(filepath.Join(socketDir(t), "none.sock"), CommandPing, 100*time.Millisecond, logger.Nop())
	assert.Error(t, err)
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/summon.sock", SocketPath())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, filepath.Join(os.TempDir(), "summon-"+strconv.Itoa(os.Getuid())+".sock"), SocketPath())
}
