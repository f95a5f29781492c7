package mcp

import "github.com/1broseidon/xwm/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Iterations    uint64 `json:"iterations"`
	Events        uint64 `json:"events"`
	Windows       int    `json:"windows"`
	Managed       int    `json:"managed"`
	Mapped        int    `json:"mapped"`
	Outputs       int    `json:"outputs"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	ManagedOnly bool `json:"managed_only,omitempty" jsonschema:"Only return windows the window manager manages (created without override-redirect)"`
	MappedOnly  bool `json:"mapped_only,omitempty" jsonschema:"Only return windows the X server has confirmed as mapped"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Count   int              `json:"count"`
	Windows []ipc.WindowInfo `json:"windows"`
}

// ListOutputsInput is the input for the list_outputs tool.
type ListOutputsInput struct{}

// ListOutputsOutput is the output for the list_outputs tool.
type ListOutputsOutput struct {
	Outputs []ipc.OutputInfo `json:"outputs"`
}
