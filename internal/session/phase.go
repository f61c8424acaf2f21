package session

// Phase is the edit session's position in the review flow.
//
//	editing ──review──▶ analyzing ──ok──▶ preview ──apply──▶ applying ──ok──▶ closed
//	   ▲                    │                │ ▲                  │
//	   │◀──────error────────┘                │ └──────error───────┘
//	   └──────────────back───────────────────┘
//
// closed is also reachable directly from every phase via Close.
type Phase string

const (
	// PhaseEditing accumulates field edits; the direct edit is
	// recomputed on every change.
	PhaseEditing Phase = "editing"

	// PhaseAnalyzing has an analysis call in flight. Edits are frozen.
	PhaseAnalyzing Phase = "analyzing"

	// PhasePreview renders the cascade set for selective acceptance.
	PhasePreview Phase = "preview"

	// PhaseApplying has a commit in flight.
	PhaseApplying Phase = "applying"

	// PhaseClosed is terminal: committed or cancelled.
	PhaseClosed Phase = "closed"
)

// Suspended reports whether the phase has a network call in flight.
// These are the only two suspension points in the whole flow.
func (p Phase) Suspended() bool {
	return p == PhaseAnalyzing || p == PhaseApplying
}

// Terminal reports whether the session is finished.
func (p Phase) Terminal() bool {
	return p == PhaseClosed
}
