// Package mcptools exposes the memo text operations as MCP tools over stdio,
// for callers that already hold a transcript.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"voice-memo-go/internal/correction"
	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/logger"
	"voice-memo-go/internal/queue"
)

const (
	ServerName = "memo"

	ToolClassify = "classify_intent"
	ToolResolve  = "resolve_corrections"
	ToolQueue    = "list_queue"
)

type Tools struct {
	QueueDir string
	Log      *logger.Logger
}

// NewServer builds an MCP server with every memo tool registered.
func NewServer(version string, t *Tools) *server.MCPServer {
	srv := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool(ToolClassify,
		mcp.WithDescription("Labels a transcript as research, summary, code, paraphrase or default using a fixed phrase table."),
		mcp.WithString("text",
			mcp.Description("Transcript text to classify"),
			mcp.Required(),
		),
	), t.handleClassify)

	srv.AddTool(mcp.NewTool(ToolResolve,
		mcp.WithDescription("Drops speech the speaker retracted (\"... actually,\", \"no, I mean\", \"never mind\") and returns what remains."),
		mcp.WithString("text",
			mcp.Description("Transcript text to resolve"),
			mcp.Required(),
		),
	), t.handleResolve)

	srv.AddTool(mcp.NewTool(ToolQueue,
		mcp.WithDescription("Lists filed memos, newest first, as JSON."),
	), t.handleQueue)

	return srv
}

// ServeStdio blocks serving the tools on stdin/stdout.
func ServeStdio(version string, t *Tools) error {
	return server.ServeStdio(NewServer(version, t))
}

func (t *Tools) log() *logger.Logger {
	if t.Log == nil {
		return logger.Discard()
	}
	return t.Log
}

func (t *Tools) handleClassify(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label := intent.Classify(text)
	t.log().WithField("tool", ToolClassify).WithField("intent", label).Debug("tool call")
	return mcp.NewToolResultText(string(label)), nil
}

func (t *Tools) handleResolve(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := correction.Resolve(text)
	t.log().WithField("tool", ToolResolve).WithField("changed", correction.Changed(text)).Debug("tool call")
	return mcp.NewToolResultText(out), nil
}

func (t *Tools) handleQueue(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := queue.List(t.QueueDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list queue: %v", err)), nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
