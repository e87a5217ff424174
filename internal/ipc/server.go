package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"summon/pkg/core"
)

const socketName = "summon.sock"

const (
	CommandToggle = "toggle"
	CommandStatus = "status"
	CommandPing   = "ping"

	StatusSuccess = "success"
	StatusError   = "error"
)

// connTimeout bounds how long a client may take to send a request.
const connTimeout = 10 * time.Second

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Handler answers decoded requests.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// SocketPath returns the control socket location, preferring
// $XDG_RUNTIME_DIR over the temp directory.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("summon-%d.sock", os.Getuid()))
}

type Server struct {
	path    string
	handler Handler
	log     core.Logger
}

func NewServer(path string, handler Handler, log core.Logger) *Server {
	return &Server{path: path, handler: handler, log: log}
}

// Serve listens until ctx is cancelled. A socket left behind by a dead
// daemon is replaced; a live one is an error.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.prepare(); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to start socket server: %w", err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		s.log.Warn("Failed to restrict socket permissions", "path", s.path, "error", err.Error())
	}

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()
	defer os.Remove(s.path)

	s.log.Info("Socket server started", "path", s.path)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Debug("Socket server stopped", "path", s.path)
				return nil
			}
			s.log.Error("Failed to accept connection", err)
			continue
		}

		s.log.Debug("New connection accepted")
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) prepare() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil
	}
	if conn, err := net.DialTimeout("unix", s.path, time.Second); err == nil {
		conn.Close()
		return fmt.Errorf("another instance is already listening on %s", s.path)
	}
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(connTimeout))

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.log.Error("Failed to decode request", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	s.log.Info("Received request", "command", req.Command)

	var resp Response
	switch req.Command {
	case CommandToggle, CommandStatus, CommandPing:
		resp = s.handler.Handle(ctx, req)
	default:
		s.log.Error("Unknown command received", fmt.Errorf("command: %s", req.Command))
		resp = Response{Status: StatusError, Message: "Unknown command"}
	}

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.log.Error("Failed to encode response", err)
	} else {
		s.log.Debug("Response sent successfully", "status", resp.Status)
	}
}
