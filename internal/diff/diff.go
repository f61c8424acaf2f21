// Package diff computes the minimal field-level difference between an
// artifact's original values and its edited values — the "direct edit"
// that anchors an edit session.
//
// Equality is structural, not referential: values are normalized to
// canonical JSON form (maps, slices, float64 numbers) and compared with
// go-cmp, so a caller-supplied []string and the JSON-decoded []any it
// round-trips into are the same value.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/mjall/ripple/internal/artifact"
)

// Fields compares original against edited over the editable field set
// of kind and returns one Change per differing field, in FieldSet order.
//
// Rules:
//   - A key in edited that is not editable on kind is an error — the
//     registry boundary is enforced here, not by downstream consumers.
//   - A field absent from edited is unchanged. Omission never means
//     deletion.
//   - The returned changes carry kind and artifactID so they can be
//     shipped to the analysis service as-is.
func Fields(kind artifact.Kind, artifactID string, original, edited map[string]any) ([]artifact.Change, error) {
	fieldSet, err := artifact.FieldSet(kind)
	if err != nil {
		return nil, err
	}

	for key := range edited {
		if !artifact.Editable(kind, key) {
			return nil, fmt.Errorf("field %q is not editable on %s artifacts", key, artifact.DisplayName(kind))
		}
	}

	var changes []artifact.Change
	for _, field := range fieldSet {
		editedValue, ok := edited[field]
		if !ok {
			continue
		}

		oldCanon, err := canonical(original[field])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		newCanon, err := canonical(editedValue)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}

		if cmp.Equal(oldCanon, newCanon) {
			continue
		}

		changes = append(changes, artifact.Change{
			Kind:       kind,
			ArtifactID: artifactID,
			Field:      field,
			OldValue:   original[field],
			NewValue:   editedValue,
		})
	}

	return changes, nil
}

// canonical normalizes a value through a JSON round trip so structurally
// equal values compare equal regardless of their concrete Go type
// (int vs float64, []string vs []any, struct vs map).
func canonical(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not serializable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("canonicalizing value: %w", err)
	}
	return out, nil
}
