package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/artifact"
	"github.com/mjall/ripple/internal/model"
	"github.com/mjall/ripple/internal/session"
)

// OpenEditTool handles ripple_open_edit: it starts a cascade-aware
// edit session on one artifact from the local model.
type OpenEditTool struct {
	manager *session.Manager
	store   model.Store
}

// NewOpenEditTool creates an OpenEditTool.
func NewOpenEditTool(manager *session.Manager, store model.Store) *OpenEditTool {
	return &OpenEditTool{manager: manager, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *OpenEditTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_open_edit",
		mcp.WithDescription(
			"Open an edit session for one artifact of the project model. "+
				"Only one session may be active at a time. "+
				"Follow with ripple_set_fields to stage changes and ripple_review "+
				"to see their cascade effects before committing.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Artifact kind to edit"),
			mcp.Enum("epic", "story", "swimlane", "chapter", "slice",
				"command", "event", "read_model", "requirement", "scenario"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Artifact identity: its id, or its name/title when it has no explicit id"),
		),
	)
}

// Handle processes the ripple_open_edit tool call.
func (t *OpenEditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := artifact.Kind(req.GetString("kind", ""))
	id := req.GetString("id", "")

	if err := artifact.ValidateKind(kind); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("'id' is required — the artifact's id, name, or title"), nil
	}

	art, err := t.store.Get(kind, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("loading artifact: %w", err)
	}

	sess, err := t.manager.Open(*art)
	if err != nil {
		if errors.Is(err, session.ErrSessionActive) {
			return mcp.NewToolResultError(err.Error() +
				". Apply or cancel it first (ripple_apply / ripple_cancel)."), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	fieldSet, err := artifact.FieldSet(kind)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✏️  Edit session opened: %s %q\n", artifact.DisplayName(kind), sess.ArtifactID())
	fmt.Fprintf(&b, "Session: %s\n\n", sess.ID())
	b.WriteString("Editable fields:\n")
	values := sess.FieldValues()
	for _, f := range fieldSet {
		fmt.Fprintf(&b, "  - %s: %s\n", f, compactValue(values[f]))
	}
	b.WriteString("\nStage changes with ripple_set_fields, then ripple_review.")

	return mcp.NewToolResultText(b.String()), nil
}
