package artifact

import "fmt"

// Change is a single field-level mutation of one artifact. The same
// shape serves both sides of the protocol: the direct edit computed by
// the diff engine (Reason empty — the user's own edit needs no
// justification) and the cascade changes proposed by the analysis
// service (Reason required — it explains why the secondary edit is
// needed).
//
// The JSON tags match the analysis service's wire contract.
type Change struct {
	Kind       Kind   `json:"artifact_type"`
	ArtifactID string `json:"artifact_id"`
	Field      string `json:"field"`
	OldValue   any    `json:"old_value"`
	NewValue   any    `json:"new_value"`
	Reason     string `json:"reason,omitempty"`
}

// Key returns the selection key for this change: kind, artifact id, and
// field joined with "/". Cascade acceptance is tracked by key, which
// makes a selection stable across renderings of the same cascade set.
func (c Change) Key() string {
	return fmt.Sprintf("%s/%s/%s", c.Kind, c.ArtifactID, c.Field)
}

// ValidateCascade checks a change proposed by the analysis service:
// the target kind must be known, the field must be editable on that
// kind, and a justification must be present.
func (c Change) ValidateCascade() error {
	if err := ValidateField(c.Kind, c.Field); err != nil {
		return fmt.Errorf("cascade change %s: %w", c.Key(), err)
	}
	if c.ArtifactID == "" {
		return fmt.Errorf("cascade change on %s is missing artifact_id", DisplayName(c.Kind))
	}
	if c.Reason == "" {
		return fmt.Errorf("cascade change %s is missing its reason", c.Key())
	}
	return nil
}
