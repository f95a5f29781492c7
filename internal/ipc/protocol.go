package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/xwm/internal/window"
	"github.com/1broseidon/xwm/internal/x11"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandGetWindows CommandType = "GET_WINDOWS"
	CommandGetOutputs CommandType = "GET_OUTPUTS"
	CommandQuit       CommandType = "QUIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Iterations    uint64 `json:"iterations"`
	Events        uint64 `json:"events"`
	Windows       int    `json:"windows"`
	Managed       int    `json:"managed"`
	Mapped        int    `json:"mapped"`
	Outputs       int    `json:"outputs"`
}

// WindowInfo describes one window entity.
type WindowInfo struct {
	ID      uint32 `json:"id"`
	Class   string `json:"class,omitempty"`
	Title   string `json:"title,omitempty"`
	Managed bool   `json:"managed"`
	Mapped  bool   `json:"mapped"`
	X       int32  `json:"x"`
	Y       int32  `json:"y"`
	Width   uint32 `json:"width"`
	Height  uint32 `json:"height"`
	Border  uint32 `json:"border"`
	// Pending is the map action still waiting for reconcile, if any.
	Pending string `json:"pending,omitempty"`
}

// WindowsPayload filters GET_WINDOWS.
type WindowsPayload struct {
	ManagedOnly bool `json:"managed_only,omitempty"`
	MappedOnly  bool `json:"mapped_only,omitempty"`
}

// Match reports whether w passes the filter.
func (p WindowsPayload) Match(w WindowInfo) bool {
	if p.ManagedOnly && !w.Managed {
		return false
	}
	if p.MappedOnly && !w.Mapped {
		return false
	}
	return true
}

// WindowsData represents the data returned by GET_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// OutputInfo represents information about a single output
type OutputInfo struct {
	Name   string `json:"name"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// OutputsData represents the data returned by GET_OUTPUTS
type OutputsData struct {
	Outputs []OutputInfo `json:"outputs"`
}

// NewWindowInfo flattens an entity. Geometry is the confirmed one when the
// server has reported it, the client's preferred one otherwise.
func NewWindowInfo(e window.Entity) WindowInfo {
	r := e.PreferredSize
	if e.ActualSize != nil {
		r = *e.ActualSize
	}
	border := e.PreferredBorder
	if e.ActualBorder != nil {
		border = *e.ActualBorder
	}
	info := WindowInfo{
		ID:      uint32(e.ID),
		Class:   e.Class,
		Title:   e.Title,
		Managed: e.Managed,
		Mapped:  e.Mapped,
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
		Border:  border,
	}
	if e.RequestMap != window.MapNone {
		info.Pending = e.RequestMap.String()
	}
	return info
}

// NewOutputInfo flattens an output.
func NewOutputInfo(o x11.Output) OutputInfo {
	return OutputInfo{
		Name:   o.Name,
		X:      o.Region.X,
		Y:      o.Region.Y,
		Width:  o.Region.Width,
		Height: o.Region.Height,
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
