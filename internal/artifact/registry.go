package artifact

import "fmt"

// fieldSets defines the ordered, user-editable field list for each kind.
// The order is load-bearing: the diff engine emits changes in FieldSet
// order, which keeps analysis requests and review output deterministic.
//
// Fields not listed here (id, timestamps, derived links) are carried on
// artifacts but are never editable through the edit protocol.
var fieldSets = map[Kind][]string{
	KindEpic:        {"name", "description", "goal", "priority", "status"},
	KindStory:       {"name", "description", "acceptance_criteria", "epic", "priority", "status"},
	KindSwimlane:    {"name", "description", "actor"},
	KindChapter:     {"name", "description", "order"},
	KindSlice:       {"name", "description", "chapter", "swimlane", "status"},
	KindCommand:     {"name", "description", "actor", "payload_fields", "slice"},
	KindEvent:       {"name", "description", "payload_fields", "emitted_by", "slice"},
	KindReadModel:   {"name", "description", "fields", "source_events", "slice"},
	KindRequirement: {"name", "description", "rationale", "priority", "status"},
	KindScenario:    {"name", "description", "given", "when", "then", "slice"},
}

// FieldSet returns the ordered editable field list for a kind.
// Returns an error for unrecognized kinds.
func FieldSet(k Kind) ([]string, error) {
	if err := ValidateKind(k); err != nil {
		return nil, err
	}

	fields := fieldSets[k]

	// Return a copy to prevent mutation of the registry.
	result := make([]string, len(fields))
	copy(result, fields)
	return result, nil
}

// Editable reports whether field is user-editable on artifacts of kind k.
func Editable(k Kind, field string) bool {
	for _, f := range fieldSets[k] {
		if f == field {
			return true
		}
	}
	return false
}

// ValidateField returns an error if field is not editable on kind k.
func ValidateField(k Kind, field string) error {
	if err := ValidateKind(k); err != nil {
		return err
	}
	if !Editable(k, field) {
		return fmt.Errorf("field %q is not editable on %s artifacts", field, DisplayName(k))
	}
	return nil
}
