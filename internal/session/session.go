// Package session implements the selective-apply orchestrator: the
// state machine that sequences a field-level edit through analysis,
// cascade review, and atomic commit.
//
// One session covers one artifact edit from open to close. The session
// owns all transient state (pending edits, direct edit, cascade set,
// accepted subset) and discards it on close — nothing here is
// long-lived storage.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mjall/ripple/internal/analysis"
	"github.com/mjall/ripple/internal/artifact"
	"github.com/mjall/ripple/internal/diff"
)

// Session is a single cascade-aware edit of one artifact.
//
// All methods are safe for concurrent use, but the flow itself is
// strictly sequential: the two suspension points (analyzing, applying)
// block re-entry into themselves and freeze edit input, so at most one
// network call is ever outstanding.
type Session struct {
	id         string
	kind       artifact.Kind
	artifactID string
	client     analysis.Client

	mu       sync.Mutex
	phase    Phase
	original map[string]any
	edited   map[string]any
	direct   []artifact.Change
	cascades []artifact.Change
	accepted map[string]bool
	lastErr  string
}

// New opens an edit session for the given artifact. The artifact's
// current field values become the diff baseline for the whole session.
func New(id string, art artifact.Artifact, client analysis.Client) (*Session, error) {
	if err := artifact.ValidateKind(art.Kind); err != nil {
		return nil, err
	}
	artifactID, err := art.Identity()
	if err != nil {
		return nil, err
	}
	return &Session{
		id:         id,
		kind:       art.Kind,
		artifactID: artifactID,
		client:     client,
		phase:      PhaseEditing,
		original:   art.CloneFields(),
		edited:     map[string]any{},
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the kind of the artifact under edit.
func (s *Session) Kind() artifact.Kind { return s.kind }

// ArtifactID returns the identity of the artifact under edit.
func (s *Session) ArtifactID() string { return s.artifactID }

// Phase returns the current flow phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the most recent analysis or apply failure message,
// empty when the last operation succeeded.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetFields merges field edits into the pending edit and recomputes the
// direct edit. Only valid while editing — the form is frozen during
// analysis and beyond (use Back to return from preview).
//
// Setting a field back to its original value removes it from the direct
// edit; edits accumulate across calls. Invalid fields reject the whole
// call without changing anything.
func (s *Session) SetFields(fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseEditing:
	case PhaseClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: cannot edit fields while %s", ErrWrongPhase, s.phase)
	}

	merged := make(map[string]any, len(s.edited)+len(fields))
	for k, v := range s.edited {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	direct, err := diff.Fields(s.kind, s.artifactID, s.original, merged)
	if err != nil {
		return err
	}

	s.edited = merged
	s.direct = direct
	return nil
}

// FieldValues returns the form as the user sees it: the original values
// overlaid with every pending edit. Survives a failed analysis — the
// user's work is never reset.
func (s *Session) FieldValues() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]any, len(s.original)+len(s.edited))
	for k, v := range s.original {
		out[k] = v
	}
	for k, v := range s.edited {
		out[k] = v
	}
	return out
}

// DirectEdit returns the current direct edit in field-set order.
func (s *Session) DirectEdit() []artifact.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChanges(s.direct)
}

// CanReview reports whether analysis may be requested: true iff the
// direct edit is non-empty.
func (s *Session) CanReview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.direct) > 0
}

// Review submits the direct edit for cascade analysis and, on success,
// moves the session to preview with the returned cascade set.
//
// Analysis is never triggered implicitly — this is the only entry
// point, so an expensive analysis runs once per explicit request, not
// per keystroke. On failure the session returns to editing with the
// direct edit intact.
func (s *Session) Review(ctx context.Context) ([]artifact.Change, error) {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.phase != PhaseEditing {
		phase := s.phase
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot request review while %s", ErrWrongPhase, phase)
	}
	if len(s.direct) == 0 {
		s.mu.Unlock()
		return nil, ErrNoChanges
	}

	req := analysis.AnalyzeRequest{
		ArtifactType: s.kind,
		ArtifactID:   s.artifactID,
		Changes:      analysis.ChangesMap(s.direct),
	}
	s.phase = PhaseAnalyzing
	s.mu.Unlock()

	result, err := s.client.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnalyzing {
		// The session was closed while the call was in flight. The
		// late result must not resurrect it — discard and report closed.
		return nil, ErrClosed
	}

	if err == nil {
		err = validateCascades(result.CascadeChanges)
	}
	if err != nil {
		s.phase = PhaseEditing
		s.lastErr = err.Error()
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	s.phase = PhasePreview
	s.cascades = result.CascadeChanges
	s.accepted = map[string]bool{}
	s.lastErr = ""
	return cloneChanges(s.cascades), nil
}

// Cascades returns the current cascade set (empty outside preview).
func (s *Session) Cascades() []artifact.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChanges(s.cascades)
}

// ToggleCascade flips the acceptance of one cascade change, identified
// by its selection key. Pure local state — no transition, no network.
// Returns the new acceptance state.
func (s *Session) ToggleCascade(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return false, ErrClosed
	}
	if s.phase != PhasePreview {
		return false, fmt.Errorf("%w: no cascade set to select from while %s", ErrWrongPhase, s.phase)
	}
	if !s.inCascadeSet(key) {
		return false, fmt.Errorf("%w: %s", ErrUnknownCascade, key)
	}

	s.accepted[key] = !s.accepted[key]
	return s.accepted[key], nil
}

// Accepted returns the accepted subset of the cascade set, in cascade
// set order. Always a subset by construction: keys only enter the
// accepted map through ToggleCascade, which checks membership.
func (s *Session) Accepted() []artifact.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acceptedLocked()
}

// Apply commits the direct edit plus the accepted cascades atomically.
// With directOnly, the approved set is forced empty regardless of the
// current selection ("apply direct only" — the selection itself is kept
// in case the commit fails and the user wants to retry with it).
//
// On success the session closes and the backend's updated artifact
// graph is returned, opaque, for the caller. On failure — transport
// error or a success=false verdict — the session returns to preview
// with selections intact; nothing was persisted.
func (s *Session) Apply(ctx context.Context, directOnly bool) (*analysis.ApplyResult, error) {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.phase != PhasePreview {
		phase := s.phase
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot apply while %s", ErrWrongPhase, phase)
	}

	approved := []artifact.Change{}
	if !directOnly {
		approved = s.acceptedLocked()
	}
	req := analysis.ApplyRequest{
		ArtifactType:     s.kind,
		ArtifactID:       s.artifactID,
		Changes:          analysis.ChangesMap(s.direct),
		ApprovedCascades: approved,
	}
	s.phase = PhaseApplying
	s.mu.Unlock()

	result, err := s.client.Apply(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseApplying {
		// Closed mid-flight; whatever the backend did, this session is
		// over and must not mutate anything.
		return nil, ErrClosed
	}

	if err != nil {
		s.phase = PhasePreview
		s.lastErr = err.Error()
		return nil, fmt.Errorf("apply failed: %w", err)
	}
	if !result.Success {
		s.phase = PhasePreview
		if result.Message == "" {
			s.lastErr = ErrApplyRejected.Error()
			return nil, ErrApplyRejected
		}
		s.lastErr = result.Message
		return nil, fmt.Errorf("%w: %s", ErrApplyRejected, result.Message)
	}

	s.phase = PhaseClosed
	s.lastErr = ""
	return result, nil
}

// Back returns from preview to editing. The cascade set and the
// accepted subset are discarded — they were only valid for the direct
// edit that produced them, and the user is about to change it. A later
// preview requires a fresh Review round.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return ErrClosed
	}
	if s.phase != PhasePreview {
		return fmt.Errorf("%w: can only go back from preview, not %s", ErrWrongPhase, s.phase)
	}

	s.phase = PhaseEditing
	s.cascades = nil
	s.accepted = nil
	return nil
}

// Close ends the session from any phase without mutating any artifact
// state. Safe to call repeatedly. An analysis or apply call still in
// flight will find the session closed when it resolves and discard its
// result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseClosed
	s.cascades = nil
	s.accepted = nil
}

// --- internal ---

func (s *Session) inCascadeSet(key string) bool {
	for _, c := range s.cascades {
		if c.Key() == key {
			return true
		}
	}
	return false
}

func (s *Session) acceptedLocked() []artifact.Change {
	var out []artifact.Change
	for _, c := range s.cascades {
		if s.accepted[c.Key()] {
			out = append(out, c)
		}
	}
	return out
}

// validateCascades checks every proposed change against the registry of
// its own target kind before the set is shown for review. A malformed
// cascade set is treated as an analysis failure.
func validateCascades(cascades []artifact.Change) error {
	for _, c := range cascades {
		if err := c.ValidateCascade(); err != nil {
			return err
		}
	}
	return nil
}

func cloneChanges(changes []artifact.Change) []artifact.Change {
	if changes == nil {
		return nil
	}
	out := make([]artifact.Change, len(changes))
	copy(out, changes)
	return out
}
