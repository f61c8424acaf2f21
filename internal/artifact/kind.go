// Package artifact defines the project-model vocabulary shared by the
// whole edit protocol: artifact kinds, the per-kind editable field
// registry, artifact identity resolution, and the Change type that
// travels between the diff engine, the analysis service, and the
// apply endpoint.
//
// The model is an event-modeling style project graph: epics break down
// into stories, chapters group feature slices on swimlanes, and slices
// connect commands, events, and read models, backed by requirements
// and acceptance scenarios.
package artifact

import "fmt"

// Kind identifies the type of a project-model artifact.
type Kind string

const (
	KindEpic        Kind = "epic"
	KindStory       Kind = "story"
	KindSwimlane    Kind = "swimlane"
	KindChapter     Kind = "chapter"
	KindSlice       Kind = "slice"
	KindCommand     Kind = "command"
	KindEvent       Kind = "event"
	KindReadModel   Kind = "read_model"
	KindRequirement Kind = "requirement"
	KindScenario    Kind = "scenario"
)

// Kinds lists every artifact kind in display order.
var Kinds = []Kind{
	KindEpic,
	KindStory,
	KindSwimlane,
	KindChapter,
	KindSlice,
	KindCommand,
	KindEvent,
	KindReadModel,
	KindRequirement,
	KindScenario,
}

// displayNames maps each kind to its human-readable singular name.
var displayNames = map[Kind]string{
	KindEpic:        "Epic",
	KindStory:       "User Story",
	KindSwimlane:    "Swimlane",
	KindChapter:     "Chapter",
	KindSlice:       "Feature Slice",
	KindCommand:     "Command",
	KindEvent:       "Event",
	KindReadModel:   "Read Model",
	KindRequirement: "Requirement",
	KindScenario:    "Acceptance Scenario",
}

// ValidateKind returns an error if the kind is not recognized.
func ValidateKind(k Kind) error {
	if _, ok := displayNames[k]; !ok {
		return fmt.Errorf("invalid artifact kind %q: must be one of: "+
			"epic, story, swimlane, chapter, slice, command, event, read_model, requirement, scenario", k)
	}
	return nil
}

// DisplayName returns the human-readable name for a kind, or the raw
// kind string if it is not recognized (never fails — used in messages).
func DisplayName(k Kind) string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}
