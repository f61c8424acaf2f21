package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/session"
)

// ToggleCascadeTool handles ripple_toggle_cascade: it flips acceptance
// of one suggested cascade change during preview.
type ToggleCascadeTool struct {
	manager *session.Manager
}

// NewToggleCascadeTool creates a ToggleCascadeTool.
func NewToggleCascadeTool(manager *session.Manager) *ToggleCascadeTool {
	return &ToggleCascadeTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *ToggleCascadeTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_toggle_cascade",
		mcp.WithDescription(
			"Accept or un-accept one cascade change from the current review. "+
				"Purely local — nothing is committed until ripple_apply. "+
				"Only keys from the current review's cascade list are valid.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from ripple_open_edit"),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Cascade selection key as shown by ripple_review, e.g. story/browse-items/description"),
		),
	)
}

// Handle processes the ripple_toggle_cascade tool call.
func (t *ToggleCascadeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.manager.Get(req.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := req.GetString("key", "")
	accepted, err := sess.ToggleCascade(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := "accepted"
	if !accepted {
		state = "no longer accepted"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s is %s. Accepted cascades: %d of %d.",
		key, state, len(sess.Accepted()), len(sess.Cascades()),
	)), nil
}
