package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/session"
)

// CancelTool handles ripple_cancel: it closes the session without
// committing anything.
type CancelTool struct {
	manager *session.Manager
}

// NewCancelTool creates a CancelTool.
func NewCancelTool(manager *session.Manager) *CancelTool {
	return &CancelTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *CancelTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_cancel",
		mcp.WithDescription(
			"Cancel the edit session from any state. No artifact is modified; "+
				"staged edits, cascade suggestions, and selections are discarded. "+
				"A review or commit already in flight is abandoned — its result "+
				"will be ignored.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from ripple_open_edit"),
		),
	)
}

// Handle processes the ripple_cancel tool call.
func (t *CancelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.manager.Get(req.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess.Close()
	return mcp.NewToolResultText(fmt.Sprintf(
		"Edit session for %s %q cancelled. Nothing was modified.",
		sess.Kind(), sess.ArtifactID(),
	)), nil
}
