package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/xwm/internal/runtimepath"
)

// Client handles IPC communication with a running window manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the window manager on display. An empty
// display means $DISPLAY.
func NewClient(display string) *Client {
	socketPath, err := runtimepath.SocketPath(display)
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window manager: %w (is xwm running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window manager error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) query(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves window manager status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.query(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetWindows lists the window entities that pass filter.
func (c *Client) GetWindows(filter WindowsPayload) (*WindowsData, error) {
	var windows WindowsData
	if err := c.query(CommandGetWindows, filter, &windows); err != nil {
		return nil, err
	}
	return &windows, nil
}

// GetOutputs retrieves the known outputs
func (c *Client) GetOutputs() (*OutputsData, error) {
	var outputs OutputsData
	if err := c.query(CommandGetOutputs, nil, &outputs); err != nil {
		return nil, err
	}
	return &outputs, nil
}

// Quit asks the window manager to stop.
func (c *Client) Quit() error {
	return c.query(CommandQuit, nil, nil)
}

// Ping checks if the window manager is reachable
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
