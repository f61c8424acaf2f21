package artifact

import "fmt"

// Artifact is one node of the project model: an opaque field map tagged
// with a kind. Field values are JSON/YAML-shaped (string, bool, float64,
// []any, map[string]any) — the diff engine normalizes them before
// comparison, so callers don't have to.
type Artifact struct {
	Kind   Kind           `json:"kind" yaml:"kind"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// Identity returns the stable identifier used to correlate this artifact
// across the analyze and apply calls of one edit session. Falls back
// from id to name to title; artifacts with none of the three cannot be
// edited through the protocol.
//
// The fallback can collide when two artifacts of the same kind share a
// name. The protocol does not resolve that ambiguity — callers who need
// uniqueness must assign explicit ids.
func (a Artifact) Identity() (string, error) {
	for _, key := range []string{"id", "name", "title"} {
		if v, ok := a.Fields[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("%s artifact has no id, name, or title to identify it", DisplayName(a.Kind))
}

// CloneFields returns a shallow copy of the artifact's field map.
// Nested values are shared; the edit protocol never mutates them in
// place (edits always replace whole field values).
func (a Artifact) CloneFields() map[string]any {
	out := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		out[k] = v
	}
	return out
}
