package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns the session map. The map itself needs locking only on
// create/delete/lookup; once a *Session is handed out, callers serialize
// access to it themselves via Session.Lock/Unlock.
type Manager struct {
	mu               sync.RWMutex
	sessions         map[string]*Session
	maxBufferSeconds float64
}

// NewManager builds an empty Manager. maxBufferSeconds is passed through to
// every session's AudioRing (C7).
func NewManager(maxBufferSeconds float64) *Manager {
	return &Manager{
		sessions:         make(map[string]*Session),
		maxBufferSeconds: maxBufferSeconds,
	}
}

// Open creates a fresh session under id, replacing any existing session with
// the same id. Used for an explicit session_open event.
func (m *Manager) Open(id string) *Session {
	s := New(id, m.maxBufferSeconds)
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// OpenNew mints a fresh session id via uuid and opens a session under it, for
// callers that don't supply their own id.
func (m *Manager) OpenNew() *Session {
	return m.Open(uuid.NewString())
}

// Get returns the session for id, or (nil, false) if it doesn't exist.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the existing session for id, lazily creating one if
// id is unknown: an audio_chunk for an unrecognized session id gets a fresh
// session rather than an error.
func (m *Manager) GetOrCreate(id string) *Session {
	if s, ok := m.Get(id); ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id, m.maxBufferSeconds)
	m.sessions[id] = s
	return s
}

// Close destroys the session under id, if any.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Snapshots returns a point-in-time Snapshot of every live session, sorted
// by id is not guaranteed - callers needing stable order should sort.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, len(sessions))
	for i, s := range sessions {
		out[i] = s.Snapshot()
	}
	return out
}
