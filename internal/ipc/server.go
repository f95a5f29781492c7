package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/xwm/internal/runtimepath"
	"github.com/1broseidon/xwm/internal/wm"
)

// StateProvider exposes the most recently published manager state.
type StateProvider interface {
	Snapshot() wm.Snapshot
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	state        StateProvider
	stop         func()
	logger       *slog.Logger
	now          func() time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	active       map[net.Conn]struct{}
	conns        sync.WaitGroup
}

// readTimeout bounds how long a client may take to send its request line.
const readTimeout = 5 * time.Second

// NewServer creates an IPC server for the window manager on display. stop is
// called after a QUIT request has been answered.
func NewServer(display string, state StateProvider, stop func(), logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath(display)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if stop == nil {
		stop = func() {}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		state:      state,
		stop:       stop,
		logger:     logger.With("component", "ipc"),
		now:        time.Now,
		active:     map[net.Conn]struct{}{},
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("accept failed", "err", err)
			continue
		}

		s.shutdownMu.Lock()
		if s.shuttingDown {
			s.shutdownMu.Unlock()
			conn.Close()
			return
		}
		s.active[conn] = struct{}{}
		s.conns.Add(1)
		s.shutdownMu.Unlock()
		go s.handleConnection(conn)
	}
}

// handleConnection answers a single line-delimited JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.conns.Done()
	defer s.untrack(conn)

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("read failed", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	s.logger.Debug("request", "command", req.Command)

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("marshal response failed", "command", req.Command, "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("send response failed", "command", req.Command, "err", err)
	}

	if req.Command == CommandQuit && resp.Status == "OK" {
		s.stop()
	}
}

func (s *Server) untrack(conn net.Conn) {
	s.shutdownMu.Lock()
	delete(s.active, conn)
	s.shutdownMu.Unlock()
	conn.Close()
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetWindows:
		return s.handleGetWindows(req.Payload)
	case CommandGetOutputs:
		return s.handleGetOutputs()
	case CommandQuit:
		s.logger.Info("quit requested")
		resp, _ := NewOKResponse(nil)
		return resp
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	snap := s.state.Snapshot()

	var uptime int64
	if !snap.Started.IsZero() {
		uptime = int64(s.now().Sub(snap.Started).Seconds())
	}

	resp, err := NewOKResponse(StatusData{
		UptimeSeconds: uptime,
		Iterations:    snap.Iterations,
		Events:        snap.Events,
		Windows:       len(snap.Windows),
		Managed:       snap.Managed(),
		Mapped:        snap.Mapped(),
		Outputs:       len(snap.Outputs),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetWindows(payload json.RawMessage) *Response {
	var filter WindowsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &filter); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}

	snap := s.state.Snapshot()
	windows := make([]WindowInfo, 0, len(snap.Windows))
	for _, e := range snap.Windows {
		info := NewWindowInfo(e)
		if filter.Match(info) {
			windows = append(windows, info)
		}
	}

	resp, err := NewOKResponse(WindowsData{Windows: windows})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetOutputs() *Response {
	snap := s.state.Snapshot()
	outputs := make([]OutputInfo, 0, len(snap.Outputs))
	for _, o := range snap.Outputs {
		outputs = append(outputs, NewOutputInfo(o))
	}

	resp, err := NewOKResponse(OutputsData{Outputs: outputs})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the listener, drops open connections, waits for their
// handlers and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	for conn := range s.active {
		conn.Close()
	}
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
