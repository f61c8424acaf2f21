// Package analysis is the client-side contract with the external
// analysis service: the service that computes which secondary
// ("cascade") edits a direct edit requires, and that atomically
// persists a commit.
//
// The client is deliberately dumb: no retries, no caching. A cascade
// set is only valid for the exact direct edit that produced it, so
// every review round is a fresh call, and timeout/recovery policy
// belongs to the edit session state machine, not here.
package analysis

import (
	"context"
	"encoding/json"

	"github.com/mjall/ripple/internal/artifact"
)

// AnalyzeRequest identifies the edited artifact and carries its direct
// edit as a field→new-value map.
type AnalyzeRequest struct {
	ArtifactType artifact.Kind  `json:"artifact_type"`
	ArtifactID   string         `json:"artifact_id"`
	Changes      map[string]any `json:"changes"`
}

// AnalyzeResult is the candidate cascade set for one direct edit.
// It may be empty: an edit with no downstream consequences is normal.
type AnalyzeResult struct {
	CascadeChanges []artifact.Change `json:"cascade_changes"`
}

// ApplyRequest is the atomic commit unit: the direct edit plus the
// user-approved subset of the cascade set.
type ApplyRequest struct {
	ArtifactType     artifact.Kind     `json:"artifact_type"`
	ArtifactID       string            `json:"artifact_id"`
	Changes          map[string]any    `json:"changes"`
	ApprovedCascades []artifact.Change `json:"approved_cascades"`
}

// ApplyResult reports the backend's verdict. UpdatedGraph is the
// refreshed artifact graph, opaque to this client — it is passed
// through to the caller untouched.
type ApplyResult struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message,omitempty"`
	UpdatedGraph json.RawMessage `json:"updated_task,omitempty"`
}

// Client is the analysis service seen from the edit protocol.
// Both calls block until the service responds or ctx is done.
type Client interface {
	// Analyze submits a direct edit and returns the proposed cascade set.
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)

	// Apply commits a direct edit plus approved cascades atomically.
	// A nil error with Success=false means the backend refused the
	// commit; nothing was persisted.
	Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error)
}

// ChangesMap flattens a direct edit into the wire form the service
// expects: field name to new value.
func ChangesMap(changes []artifact.Change) map[string]any {
	out := make(map[string]any, len(changes))
	for _, c := range changes {
		out[c.Field] = c.NewValue
	}
	return out
}
