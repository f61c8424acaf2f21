package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/session"
)

// StatusTool handles ripple_status: a read-only snapshot of the active
// edit session.
type StatusTool struct {
	manager *session.Manager
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(manager *session.Manager) *StatusTool {
	return &StatusTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_status",
		mcp.WithDescription(
			"Show the active edit session: phase, staged changes, cascade "+
				"suggestions and which are accepted, and the last error if the "+
				"previous review or commit failed. Read-only.",
		),
		mcp.WithString("session_id",
			mcp.Description("Optional: verify a specific session id instead of whatever is active"),
		),
	)
}

// Handle processes the ripple_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.manager.Active()
	if sess == nil {
		return mcp.NewToolResultText(
			"No edit session. Open one with ripple_open_edit."), nil
	}
	if want := req.GetString("session_id", ""); want != "" && want != sess.ID() {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no such edit session: %s (active session is %s)", want, sess.ID())), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s — %s %q\n", sess.ID(), sess.Kind(), sess.ArtifactID())
	fmt.Fprintf(&b, "Phase: %s\n\n", sess.Phase())
	b.WriteString(summarizeDirect(sess.DirectEdit()))

	if cascades := sess.Cascades(); len(cascades) > 0 {
		acceptedKeys := map[string]bool{}
		for _, c := range sess.Accepted() {
			acceptedKeys[c.Key()] = true
		}
		fmt.Fprintf(&b, "\n\nCascade suggestions (%d accepted of %d):\n",
			len(acceptedKeys), len(cascades))
		for _, c := range cascades {
			fmt.Fprintf(&b, "  %s\n", formatCascade(c, acceptedKeys[c.Key()]))
		}
	}

	if lastErr := sess.LastError(); lastErr != "" {
		fmt.Fprintf(&b, "\n\nLast error: %s", lastErr)
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
