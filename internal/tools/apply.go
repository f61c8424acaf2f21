package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/model"
	"github.com/mjall/ripple/internal/session"
)

// ApplyTool handles ripple_apply: it commits the direct edit plus the
// accepted cascades atomically and, on success, writes the committed
// values into the local model.
type ApplyTool struct {
	manager *session.Manager
	store   model.Store
}

// NewApplyTool creates an ApplyTool.
func NewApplyTool(manager *session.Manager, store model.Store) *ApplyTool {
	return &ApplyTool{manager: manager, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ApplyTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_apply",
		mcp.WithDescription(
			"Commit the reviewed edit: the direct changes plus every accepted "+
				"cascade, as one atomic unit. Either everything is persisted and "+
				"the session closes, or nothing is and the session stays in "+
				"preview with selections intact for retry. "+
				"Set direct_only to commit the direct edit with zero cascades "+
				"regardless of the current selection.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from ripple_open_edit"),
		),
		mcp.WithBoolean("direct_only",
			mcp.Description("If true, commit with an empty cascade set even if cascades are accepted"),
		),
	)
}

// Handle processes the ripple_apply tool call.
func (t *ApplyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.manager.Get(req.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	directOnly := boolArg(req, "direct_only", false)

	// Capture the commit contents before the session closes on success.
	committed := sess.DirectEdit()
	if !directOnly {
		committed = append(committed, sess.Accepted()...)
	}

	result, err := sess.Apply(ctx, directOnly)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%v\nNothing was persisted. The session is still in preview — retry "+
				"ripple_apply, or use direct_only=true to skip the cascades.", err)), nil
	}

	// Backend confirmed the commit; mirror it into the local model.
	applied, err := t.store.ApplyChanges(committed)
	if err != nil {
		// The commit itself succeeded — report it, flag the local model.
		log.Printf("WARNING: local model update after commit: %v", err)
		return mcp.NewToolResultText(fmt.Sprintf(
			"✅ Commit succeeded, but the local model could not be updated: %v\n"+
				"Re-import the model to resynchronize.", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Committed %s %q: %d change(s) persisted, %d mirrored locally.\n",
		sess.Kind(), sess.ArtifactID(), len(committed), applied)
	if len(result.UpdatedGraph) > 0 {
		fmt.Fprintf(&b, "\nUpdated artifact graph:\n%s", string(result.UpdatedGraph))
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
