package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mjall/ripple/internal/analysis"
	"github.com/mjall/ripple/internal/artifact"
)

// Manager owns edit sessions and enforces the single-edit-at-a-time
// rule: a new session can only open once the previous one is closed.
// Cross-session conflict resolution is explicitly out of scope — one
// model, one live edit.
type Manager struct {
	client analysis.Client
	newID  func() string

	mu     sync.Mutex
	active *Session
}

// NewManager creates a session manager backed by the given analysis
// client.
func NewManager(client analysis.Client) *Manager {
	return &Manager{
		client: client,
		newID:  uuid.NewString,
	}
}

// Open starts an edit session for art. Fails with ErrSessionActive if
// a session is still running.
func (m *Manager) Open(art artifact.Artifact) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && !m.active.Phase().Terminal() {
		return nil, fmt.Errorf("%w: %s %q (session %s, %s)",
			ErrSessionActive,
			artifact.DisplayName(m.active.Kind()), m.active.ArtifactID(),
			m.active.ID(), m.active.Phase())
	}

	s, err := New(m.newID(), art, m.client)
	if err != nil {
		return nil, err
	}
	m.active = s
	return s, nil
}

// Get returns the active session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.ID() != id {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return m.active, nil
}

// Active returns the current session, or nil when none is open.
// A closed session still counts as "current" until the next Open —
// its final state remains inspectable.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
