package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xwm/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("get_status: %w", err)
	}
	return nil, GetStatusOutput{
		UptimeSeconds: status.UptimeSeconds,
		Iterations:    status.Iterations,
		Events:        status.Events,
		Windows:       status.Windows,
		Managed:       status.Managed,
		Mapped:        status.Mapped,
		Outputs:       status.Outputs,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.GetWindows(ipc.WindowsPayload{
		ManagedOnly: args.ManagedOnly,
		MappedOnly:  args.MappedOnly,
	})
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}

	windows := data.Windows
	if windows == nil {
		windows = []ipc.WindowInfo{}
	}
	s.logger.Debug("list_windows", "managed_only", args.ManagedOnly, "mapped_only", args.MappedOnly, "count", len(windows))
	return nil, ListWindowsOutput{Count: len(windows), Windows: windows}, nil
}

func (s *Server) handleListOutputs(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListOutputsInput) (*mcpsdk.CallToolResult, ListOutputsOutput, error) {
	data, err := s.client.GetOutputs()
	if err != nil {
		return nil, ListOutputsOutput{}, fmt.Errorf("list_outputs: %w", err)
	}

	outputs := data.Outputs
	if outputs == nil {
		outputs = []ipc.OutputInfo{}
	}
	return nil, ListOutputsOutput{Outputs: outputs}, nil
}
