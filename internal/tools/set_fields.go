package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/session"
)

// SetFieldsTool handles ripple_set_fields: it stages field edits on the
// open session and reports the resulting direct edit.
type SetFieldsTool struct {
	manager *session.Manager
}

// NewSetFieldsTool creates a SetFieldsTool.
func NewSetFieldsTool(manager *session.Manager) *SetFieldsTool {
	return &SetFieldsTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *SetFieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_set_fields",
		mcp.WithDescription(
			"Stage field edits on the open edit session. Edits accumulate across "+
				"calls; setting a field back to its original value un-stages it. "+
				"Nothing is analyzed or committed — use ripple_review for that. "+
				"Editing from preview discards the cascade list and returns to "+
				"editing. Rejected while a review or commit is in flight.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from ripple_open_edit"),
		),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description(`JSON object of field names to new values, e.g. {"description": "new text"}. `+
				"Only fields editable on the artifact's kind are accepted."),
		),
	)
}

// Handle processes the ripple_set_fields tool call.
func (t *SetFieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.manager.Get(req.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields, err := parseFields(req.GetString("fields", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Editing from preview reopens the session: the cascade list was
	// only valid for the edit it analyzed.
	discarded := false
	if sess.Phase() == session.PhasePreview {
		if err := sess.Back(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		discarded = true
	}

	if err := sess.SetFields(fields); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Staged edits on %s %q.\n\n", sess.Kind(), sess.ArtifactID())
	if discarded {
		b.WriteString("The previous cascade list was discarded — it applied to an edit that no longer exists.\n\n")
	}
	b.WriteString(summarizeDirect(sess.DirectEdit()))
	if sess.CanReview() {
		b.WriteString("\n\nRun ripple_review to see cascade effects.")
	} else {
		b.WriteString("\n\nNothing differs from the original — review is not available yet.")
	}

	return mcp.NewToolResultText(b.String()), nil
}
