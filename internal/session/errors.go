package session

import "errors"

// Guard violations of the state machine. These are user-recoverable:
// the session stays in its current phase when one is returned.
var (
	// ErrNoChanges — review requested with an empty direct edit.
	// Rejected locally; no analysis call is made.
	ErrNoChanges = errors.New("no changed fields to review")

	// ErrWrongPhase — the operation is not valid in the current phase
	// (e.g. editing fields while analysis is in flight).
	ErrWrongPhase = errors.New("operation not allowed in current phase")

	// ErrClosed — the session has ended; no further operations. Also
	// returned when an in-flight call resolves after cancellation: the
	// late result is discarded, never surfaced.
	ErrClosed = errors.New("edit session is closed")

	// ErrUnknownCascade — a selection key that is not in the current
	// cascade set. Nothing outside the analysis response can be
	// accepted or committed.
	ErrUnknownCascade = errors.New("cascade change not in current cascade set")

	// ErrApplyRejected — the backend answered the commit with
	// success=false. Nothing was persisted; the session returns to
	// preview for retry or direct-only apply.
	ErrApplyRejected = errors.New("apply rejected by backend")

	// ErrSessionActive — a second session was opened while one is
	// still running. The protocol is single-edit-at-a-time.
	ErrSessionActive = errors.New("an edit session is already active")

	// ErrSessionNotFound — no active session matches the given id.
	ErrSessionNotFound = errors.New("no such edit session")
)
