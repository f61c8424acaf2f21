// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the local model store, builds
// the analysis client and the session manager, and injects them into the
// tools. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mjall/ripple/internal/analysis"
	"github.com/mjall/ripple/internal/config"
	"github.com/mjall/ripple/internal/model"
	"github.com/mjall/ripple/internal/session"
	"github.com/mjall/ripple/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with every edit-protocol
// tool registered. This is the single place where all dependencies are
// resolved.
//
// The returned cleanup function closes the model store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if initialization failed.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	store, err := model.Open(cfg.DatabasePath)
	if err != nil {
		return nil, noop, fmt.Errorf("opening model store: %w", err)
	}
	cleanup := func() { _ = store.Close() }

	client := analysis.NewHTTPClient(cfg.AnalysisURL,
		analysis.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	manager := session.NewManager(client)

	s := server.NewMCPServer(
		"ripple",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Edit session lifecycle ---

	openEdit := tools.NewOpenEditTool(manager, store)
	s.AddTool(openEdit.Definition(), openEdit.Handle)

	setFields := tools.NewSetFieldsTool(manager)
	s.AddTool(setFields.Definition(), setFields.Handle)

	review := tools.NewReviewTool(manager)
	s.AddTool(review.Definition(), review.Handle)

	toggle := tools.NewToggleCascadeTool(manager)
	s.AddTool(toggle.Definition(), toggle.Handle)

	apply := tools.NewApplyTool(manager, store)
	s.AddTool(apply.Definition(), apply.Handle)

	cancel := tools.NewCancelTool(manager)
	s.AddTool(cancel.Definition(), cancel.Handle)

	status := tools.NewStatusTool(manager)
	s.AddTool(status.Definition(), status.Handle)

	// --- Model browsing ---

	list := tools.NewListArtifactsTool(store)
	s.AddTool(list.Definition(), list.Handle)

	get := tools.NewGetArtifactTool(store)
	s.AddTool(get.Definition(), get.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails before the
// store is open.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to drive the edit protocol.
func serverInstructions() string {
	return `You have access to ripple, a cascade-aware editor for event-modeling
project models (epics, stories, swimlanes, chapters, slices, commands,
events, read models, requirements, scenarios).

## Why cascades matter

Artifacts reference each other: a story names the command it exercises, a
read model lists its source events, a scenario belongs to a slice. Editing
one artifact in isolation silently breaks those references. ripple routes
every edit through dependency analysis so secondary changes are reviewed
BEFORE anything is committed.

## The edit protocol

1. ripple_open_edit — open a session on one artifact. Only one session
   may be active at a time; apply or cancel before opening another.
2. ripple_set_fields — stage field changes. Edits accumulate; setting a
   field back to its original value un-stages it. Nothing is committed.
3. ripple_review — send the staged edit for cascade analysis. You get a
   list of suggested changes to OTHER artifacts, each with a reason and a
   selection key. Nothing is accepted by default.
4. ripple_toggle_cascade — accept or un-accept individual cascades by
   key. Discuss them with the user: cascades are suggestions, not
   obligations.
5. ripple_apply — commit the direct edit plus the accepted cascades as
   one atomic unit. Everything is persisted or nothing is. Use
   direct_only=true to commit with zero cascades.
6. ripple_cancel — abandon the session from any state without modifying
   anything.

ripple_status shows the session at any point; ripple_list_artifacts and
ripple_get_artifact browse the local model read-only.

## Rules

- NEVER call ripple_apply without running ripple_review first — the
  protocol enforces this, but do not try to work around it.
- Editing fields after a review invalidates the cascade list; you must
  review again. This is intentional: cascades are only meaningful for the
  exact edit that produced them.
- If a review or commit fails, nothing is lost: staged edits and cascade
  selections survive. Report the error and retry.
- Present cascades to the user individually with their reasons. Do not
  bulk-accept without showing them what will change.
- The local model is a mirror for browsing; the analysis backend is the
  source of truth for commits.`
}
