package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbocsi/roverlink/bridge"
	"github.com/mbocsi/roverlink/command"
)

// Bridge is what the MCP tools need from the running bridge.
type Bridge interface {
	InjectCommand(ctx context.Context, text string) string
	Actions() []bridge.ActionInfo
	Stats() bridge.Stats
}

// RegisterTools wires the teleop tools onto the MCP server.
func RegisterTools(s *MCPServer, b Bridge) {
	sendCommand := mcp.NewTool("send_command",
		mcp.WithDescription("Send a rover command using the same text grammar UDP peers use, e.g. 'vel 0.2 -0.3' or 'drive forward 0.5'"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command text"),
		),
	)
	s.AddTool(sendCommand, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		reply := b.InjectCommand(ctx, text)
		if reply == "" {
			return mcp.NewToolResultError("no reply; empty command or action still pending"), nil
		}
		return mcp.NewToolResultText(reply), nil
	})

	listActions := mcp.NewTool("list_actions",
		mcp.WithDescription("List the outstanding asynchronous motion goals and their lifecycle state"),
	)
	s.AddTool(listActions, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		actions := b.Actions()
		if actions == nil {
			actions = []bridge.ActionInfo{}
		}
		jsonBytes, err := json.MarshalIndent(actions, "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	status := mcp.NewTool("robot_status",
		mcp.WithDescription("Get bridge counters: datagrams, messages, commands, replies, parse errors"),
	)
	s.AddTool(status, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.MarshalIndent(b.Stats(), "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	help := mcp.NewTool("command_help",
		mcp.WithDescription("Get the rover command grammar reference"),
	)
	s.AddTool(help, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(command.HelpText), nil
	})
}
