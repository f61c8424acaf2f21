package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjall/ripple/internal/artifact"
	"github.com/mjall/ripple/internal/model"
)

// ListArtifactsTool handles ripple_list_artifacts: browse the local
// project model.
type ListArtifactsTool struct {
	store model.Store
}

// NewListArtifactsTool creates a ListArtifactsTool.
func NewListArtifactsTool(store model.Store) *ListArtifactsTool {
	return &ListArtifactsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListArtifactsTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_list_artifacts",
		mcp.WithDescription(
			"List artifacts in the local project model, optionally filtered by kind.",
		),
		mcp.WithString("kind",
			mcp.Description("Restrict to one artifact kind; omit for the whole model"),
			mcp.Enum("epic", "story", "swimlane", "chapter", "slice",
				"command", "event", "read_model", "requirement", "scenario"),
		),
	)
}

// Handle processes the ripple_list_artifacts tool call.
func (t *ListArtifactsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := artifact.Kind(req.GetString("kind", ""))
	if kind != "" {
		if err := artifact.ValidateKind(kind); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	artifacts, err := t.store.List(kind)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return mcp.NewToolResultText(
			"The model is empty. Import one with the 'ripple import' command."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project model (%d artifact(s)):\n", len(artifacts))
	currentKind := artifact.Kind("")
	for _, a := range artifacts {
		if a.Kind != currentKind {
			currentKind = a.Kind
			fmt.Fprintf(&b, "\n%s:\n", artifact.DisplayName(a.Kind))
		}
		id, err := a.Identity()
		if err != nil {
			id = "(unidentified)"
		}
		fmt.Fprintf(&b, "  - %s\n", id)
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// GetArtifactTool handles ripple_get_artifact: full field dump of one
// artifact.
type GetArtifactTool struct {
	store model.Store
}

// NewGetArtifactTool creates a GetArtifactTool.
func NewGetArtifactTool(store model.Store) *GetArtifactTool {
	return &GetArtifactTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GetArtifactTool) Definition() mcp.Tool {
	return mcp.NewTool("ripple_get_artifact",
		mcp.WithDescription("Show one artifact of the project model with all its fields."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Artifact kind"),
			mcp.Enum("epic", "story", "swimlane", "chapter", "slice",
				"command", "event", "read_model", "requirement", "scenario"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Artifact identity (id, name, or title)"),
		),
	)
}

// Handle processes the ripple_get_artifact tool call.
func (t *GetArtifactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := artifact.Kind(req.GetString("kind", ""))
	if err := artifact.ValidateKind(kind); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	art, err := t.store.Get(kind, req.GetString("id", ""))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("loading artifact: %w", err)
	}

	fields, err := json.MarshalIndent(art.Fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding artifact fields: %w", err)
	}

	id, _ := art.Identity()
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s %q:\n%s", artifact.DisplayName(kind), id, fields,
	)), nil
}
