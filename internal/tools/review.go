package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/session"
)

// ReviewTool handles ripple_review: it submits the staged direct edit
// for cascade analysis and renders the proposed secondary changes.
type ReviewTool struct {
	manager *session.Manager
}

// NewReviewTool creates a ReviewTool.
func NewReviewTool(manager *session.Manager) *ReviewTool {
	return &ReviewTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_review",
		mcp.WithDescription(
			"Analyze the staged edits for cascade effects on other artifacts. "+
				"Moves the session to preview, where cascades can be accepted "+
				"individually (ripple_toggle_cascade) before committing "+
				"(ripple_apply). Requires at least one changed field. "+
				"Editing again after a review discards the cascade list.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from ripple_open_edit"),
		),
	)
}

// Handle processes the ripple_review tool call.
func (t *ReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.manager.Get(req.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cascades, err := sess.Review(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoChanges) {
			return mcp.NewToolResultError(
				"No changed fields to review — stage an edit with ripple_set_fields first."), nil
		}
		// Analysis failures are recoverable: the session is back in
		// editing with the staged fields intact.
		return mcp.NewToolResultError(fmt.Sprintf(
			"%v\nYour staged edits are preserved — fix the problem and run ripple_review again.", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Review for %s %q\n\n", sess.Kind(), sess.ArtifactID())
	b.WriteString(summarizeDirect(sess.DirectEdit()))
	b.WriteString("\n\n")

	if len(cascades) == 0 {
		// Single-action confirmation — no review list to work through.
		b.WriteString("No cascade effects on other artifacts.\n")
		b.WriteString("Run ripple_apply to commit the direct edit.")
		return mcp.NewToolResultText(b.String()), nil
	}

	fmt.Fprintf(&b, "Suggested cascade changes (%d), none accepted yet:\n", len(cascades))
	for _, c := range cascades {
		fmt.Fprintf(&b, "  %s\n", formatCascade(c, false))
	}
	b.WriteString("\nAccept individual items with ripple_toggle_cascade, then commit with\n")
	b.WriteString("ripple_apply (or ripple_apply direct_only=true to skip all cascades).")

	return mcp.NewToolResultText(b.String()), nil
}
