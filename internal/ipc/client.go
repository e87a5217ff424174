package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"summon/pkg/core"
)

// SendCommand sends one command to the daemon at path and waits for the
// reply.
func SendCommand(path, command string, timeout time.Duration, log core.Logger) (Response, error) {
	log.Debug("Attempting to connect to socket server", "path", path)

	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return Response{}, fmt.Errorf("daemon not reachable at %s: %w", path, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	if err := json.NewEncoder(conn).Encode(Request{Command: command}); err != nil {
		return Response{}, fmt.Errorf("failed to encode request: %w", err)
	}
	log.Debug("Request sent successfully", "command", command)

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Debug("Response received", "status", resp.Status, "message", resp.Message)
	return resp, nil
}
